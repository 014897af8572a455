package mail

type ClientAssignedEmailData struct {
	ManagerName         string
	CompanyName         string
	SubscriptionPackage string
	MonthlyValue        string
	ContractStartDate   string
	ClientID            string
}
