package voter

// Column names shared by the snapshot schema, the loader and the cleaner.
const (
	ColVoterID      = "voter_id"
	ColCounty       = "county"
	ColPartyCode    = "party_code"
	ColBirthDate    = "birth_date"
	ColEffRegnDate  = "eff_regn_date"
	ColStatus       = "status"
	ColConfidential = "confidential"
	ColDescription  = "description"
)

// Suffixes applied to columns present in both tables after the join.
const (
	SuffixRegistration = "_reg"
	SuffixMotorVoter   = "_omv"
)

// RegistrationColumns must be present in the registration table.
var RegistrationColumns = []string{
	ColVoterID, ColCounty, ColPartyCode, ColBirthDate, ColEffRegnDate, ColStatus, ColConfidential,
}

// MotorVoterColumns must be present in the motor-voter table.
var MotorVoterColumns = []string{ColVoterID, ColDescription}
