// Package leasepdf generates Vietnamese room-rental contracts as PDF.
//
// # Quick Start
//
// Create a generator, generate a contract, and close when done:
//
//	gen, err := leasepdf.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	record, err := leasepdf.ParseRecord(data) // JSON or YAML
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := gen.Generate(ctx, leasepdf.Input{Record: record})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.PDF, 0644)
//
// # Records
//
// A record is a loosely structured map. Field names are matched through alias
// lists and naming conventions (contractId, contract_id, ContractID), so
// records from different sources need no mapping step. The parties list keeps
// its order: the first party is the lessor, the second the lessee, the rest
// co-occupants. Missing fields render as "[Chưa cập nhật]"; a record never
// fails generation for missing data.
//
// # Document
//
// The contract has a fixed section order: title block, parties, sixteen
// numbered articles, a summary table, the signature block, an identity card
// gallery and scanned documents. Static wording comes from a clause set;
// the built-in one is "standard". Override it with WithAssetPath and a
// clauses/{name}.yaml file.
//
// Blocks are measured before placement, so no line, image or table row is
// cut by a page boundary.
//
// # Images
//
// Signatures, identity cards and documents are image references: data URIs,
// http(s) URLs, or local files when WithAllowLocalFiles is set. Remote images
// are tried through an escalation chain: the trusted relay (WithRelayURL),
// a direct draw, third-party relays drawn as images, then third-party relays
// read raw (WithProxies). Each attempt has its own timeout. An image that
// cannot be fetched renders as a label and is listed in Result.Missing.
//
// # HTTP
//
// Handler serves POST /contracts/pdf and the trusted relay GET /relay that
// the image chain can point at.
//
// # Browser Requirements
//
// Only WithBrowserDrawer and Preview use Chrome. The go-rod library
// downloads a managed Chromium on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package leasepdf
