package record

// Alias tables, highest priority first. Keys are matched exactly, then
// convention-insensitively (see normKey), so "startDate" also covers
// "start_date", "StartDate" and "start-date".
var (
	aliasID = []string{"contractId", "id", "_id", "contractCode", "code", "contractNumber"}

	aliasParties   = []string{"parties", "members", "tenants", "people", "participants", "occupants"}
	aliasLessor    = []string{"lessor", "landlord", "owner", "host"}
	aliasLessee    = []string{"lessee", "tenant", "renter", "primaryTenant"}
	aliasOccupants = []string{"coOccupants", "roommates", "coTenants", "otherOccupants"}

	aliasRoom         = []string{"room", "property", "listing", "roomInfo"}
	aliasRoomName     = []string{"name", "roomName", "title", "roomNumber", "roomCode"}
	aliasRoomAddress  = []string{"address", "roomAddress", "fullAddress", "location"}
	aliasRoomArea     = []string{"area", "roomArea", "acreage", "size", "squareMeters"}
	aliasRoomCapacity = []string{"maxOccupants", "capacity", "maxPeople", "maxTenants"}
	aliasRoomPrice    = []string{"price", "roomPrice", "monthlyPrice", "rentPrice"}

	aliasStart = []string{"startDate", "fromDate", "leaseStart", "checkInDate", "start"}
	aliasEnd   = []string{"endDate", "toDate", "leaseEnd", "checkOutDate", "end"}

	aliasRent          = []string{"monthlyRent", "rent", "rentAmount", "rentPrice", "price", "roomPrice"}
	aliasDeposit       = []string{"deposit", "depositAmount", "securityDeposit"}
	aliasPaymentDay    = []string{"paymentDay", "paymentDueDay", "dueDay"}
	aliasPaymentMethod = []string{"paymentMethod", "paymentType"}
	aliasElectricRate  = []string{"electricRate", "electricityPrice", "electricPrice", "electricUnitPrice"}
	aliasWaterRate     = []string{"waterRate", "waterPrice", "waterUnitPrice"}
	aliasServiceFee    = []string{"serviceFee", "serviceCharge", "commonFee"}

	aliasUtilities       = []string{"utilities", "utilityReadings", "meterReadings", "readings"}
	aliasUtilityType     = []string{"type", "kind", "utilityType", "name"}
	aliasUtilityPrevious = []string{"previous", "previousIndex", "oldIndex", "prev", "startIndex"}
	aliasUtilityCurrent  = []string{"current", "currentIndex", "newIndex", "curr", "endIndex"}
	aliasUtilityPrice    = []string{"unitPrice", "price", "rate"}
	aliasUtilityTotal    = []string{"total", "amount", "totalAmount"}
	aliasElectricObject  = []string{"electric", "electricity", "dien"}
	aliasWaterObject     = []string{"water", "nuoc"}

	aliasNotes     = []string{"notes", "note", "remarks", "additionalTerms"}
	aliasDocuments = []string{"documents", "scans", "attachments", "documentImages", "scannedDocuments"}

	aliasSignatures      = []string{"signatures", "signature"}
	aliasLessorSignature = []string{"lessorSignature", "landlordSignature", "ownerSignature"}
	aliasLesseeSignature = []string{"lesseeSignature", "tenantSignature", "renterSignature"}
	aliasLessorSignedAt  = []string{"lessorSignedAt", "landlordSignedAt", "ownerSignedAt", "lessorSignatureDate"}
	aliasLesseeSignedAt  = []string{"lesseeSignedAt", "tenantSignedAt", "renterSignedAt", "lesseeSignatureDate"}
	aliasSigLessorKey    = []string{"lessor", "landlord", "owner"}
	aliasSigLesseeKey    = []string{"lessee", "tenant", "renter"}
	aliasSigImage        = []string{"image", "dataUrl", "url", "signature", "src"}
	aliasSigSignedAt     = []string{"signedAt", "date", "timestamp", "time"}

	aliasCreatedAt  = []string{"createdAt", "created", "dateCreated"}
	aliasUpdatedAt  = []string{"updatedAt", "updated", "lastModified"}
	aliasCanceledAt = []string{"canceledAt", "cancelledAt", "terminatedAt"}
	aliasStatus     = []string{"status", "state", "contractStatus"}
)

// Party field aliases.
var (
	aliasPartyName        = []string{"name", "fullName", "displayName", "hoTen"}
	aliasPartyIDNumber    = []string{"idNumber", "cccd", "cmnd", "identityNumber", "nationalId", "citizenId"}
	aliasPartyIDDate      = []string{"idIssuedDate", "idIssueDate", "cccdIssuedDate", "issuedDate"}
	aliasPartyIDPlace     = []string{"idIssuedPlace", "idIssuePlace", "cccdIssuedPlace", "issuedPlace"}
	aliasPartyBirthDate   = []string{"birthDate", "dateOfBirth", "dob", "birthday"}
	aliasPartyPhone       = []string{"phone", "phoneNumber", "tel", "mobile"}
	aliasPartyEmail       = []string{"email", "mail"}
	aliasPartyAddress     = []string{"address", "permanentAddress", "hometown", "residence"}
	aliasPartyIDCard      = []string{"idCard", "idCardImages", "cccdImages", "identityCard"}
	aliasPartyIDCardFront = []string{"idCardFront", "cccdFront", "cmndFront", "frontImage", "idFront"}
	aliasPartyIDCardBack  = []string{"idCardBack", "cccdBack", "cmndBack", "backImage", "idBack"}
	aliasCardFront        = []string{"front", "frontImage", "frontUrl"}
	aliasCardBack         = []string{"back", "backImage", "backUrl"}
)

// imageRefKeys lists the fields an image object may carry its reference in.
var imageRefKeys = []string{"url", "src", "dataUrl", "downloadUrl", "uri", "image", "path"}

// flatPartySuffixes maps suffixes of flat prefixed keys ("landlordName",
// "tenant_phone") onto party field aliases.
var flatPartySuffixes = map[string][]string{
	"name":          {"Name", "FullName"},
	"idNumber":      {"IdNumber", "Cccd", "Cmnd"},
	"idIssuedDate":  {"IdIssuedDate", "CccdIssuedDate"},
	"idIssuedPlace": {"IdIssuedPlace", "CccdIssuedPlace"},
	"birthDate":     {"BirthDate", "Dob"},
	"phone":         {"Phone", "PhoneNumber"},
	"email":         {"Email"},
	"address":       {"Address"},
	"idCardFront":   {"IdCardFront", "CccdFront"},
	"idCardBack":    {"IdCardBack", "CccdBack"},
}

// flatPartyFields fixes the iteration order over flatPartySuffixes.
var flatPartyFields = []string{
	"name", "idNumber", "idIssuedDate", "idIssuedPlace", "birthDate",
	"phone", "email", "address", "idCardFront", "idCardBack",
}

// Flat room keys found at the top level of the record.
var (
	aliasFlatRoomName     = []string{"roomName", "roomNumber", "roomCode", "roomTitle"}
	aliasFlatRoomAddress  = []string{"roomAddress", "propertyAddress", "address"}
	aliasFlatRoomArea     = []string{"roomArea", "area", "acreage"}
	aliasFlatRoomCapacity = []string{"maxOccupants", "capacity", "maxPeople"}
	aliasFlatRoomPrice    = []string{"roomPrice", "rentPrice"}
)
