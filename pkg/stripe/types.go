package stripe

// Currency is a lowercase three-letter ISO currency code.
type Currency string

// Common currencies.
const (
	CurrencyAUD Currency = "aud"
	CurrencyCAD Currency = "cad"
	CurrencyCHF Currency = "chf"
	CurrencyEUR Currency = "eur"
	CurrencyGBP Currency = "gbp"
	CurrencyJPY Currency = "jpy"
	CurrencyUSD Currency = "usd"
)

// Metadata is the set of key/value pairs attached to an object.
type Metadata map[string]string

// ListResponse is the envelope of every list endpoint.
type ListResponse[T any] struct {
	Object  string `json:"object"   yaml:"object"`
	URL     string `json:"url"      yaml:"url"`
	HasMore bool   `json:"has_more" yaml:"has_more"`
	Data    []T    `json:"data"     yaml:"data"`
}

// DeletedObject is returned by delete endpoints.
type DeletedObject struct {
	ID      string `json:"id"      yaml:"id"`
	Object  string `json:"object"  yaml:"object"`
	Deleted bool   `json:"deleted" yaml:"deleted"`
}

// Address is a postal address.
type Address struct {
	City       *string `json:"city,omitempty"        yaml:"city,omitempty"`
	Country    *string `json:"country,omitempty"     yaml:"country,omitempty"`
	Line1      *string `json:"line1,omitempty"       yaml:"line1,omitempty"`
	Line2      *string `json:"line2,omitempty"       yaml:"line2,omitempty"`
	PostalCode *string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	State      *string `json:"state,omitempty"       yaml:"state,omitempty"`
}

// Params converts the address into request parameters. Unset fields are
// absent, so an update only touches the fields provided.
func (a *Address) Params() *Params {
	if a == nil {
		return nil
	}

	return NewParams().
		Set("city", OptStr(a.City)).
		Set("country", OptStr(a.Country)).
		Set("line1", OptStr(a.Line1)).
		Set("line2", OptStr(a.Line2)).
		Set("postal_code", OptStr(a.PostalCode)).
		Set("state", OptStr(a.State))
}

// DateOfBirth is a calendar date.
type DateOfBirth struct {
	Day   int64 `json:"day"   yaml:"day"`
	Month int64 `json:"month" yaml:"month"`
	Year  int64 `json:"year"  yaml:"year"`
}

// Params converts the date into request parameters.
func (d *DateOfBirth) Params() *Params {
	if d == nil {
		return nil
	}

	return NewParams().
		Set("day", Int(d.Day)).
		Set("month", Int(d.Month)).
		Set("year", Int(d.Year))
}

// TopUpStatus is the lifecycle state of a top-up.
type TopUpStatus string

// Top-up states.
const (
	TopUpStatusCanceled  TopUpStatus = "canceled"
	TopUpStatusFailed    TopUpStatus = "failed"
	TopUpStatusPending   TopUpStatus = "pending"
	TopUpStatusReversed  TopUpStatus = "reversed"
	TopUpStatusSucceeded TopUpStatus = "succeeded"
)

// TopUp moves funds into the account balance.
type TopUp struct {
	ID                       string      `json:"id"                                   yaml:"id"`
	Object                   string      `json:"object"                               yaml:"object"`
	Amount                   int64       `json:"amount"                               yaml:"amount"`
	BalanceTransaction       *string     `json:"balance_transaction,omitempty"        yaml:"balance_transaction,omitempty"`
	Created                  int64       `json:"created"                              yaml:"created"`
	Currency                 Currency    `json:"currency"                             yaml:"currency"`
	Description              *string     `json:"description,omitempty"                yaml:"description,omitempty"`
	ExpectedAvailabilityDate *int64      `json:"expected_availability_date,omitempty" yaml:"expected_availability_date,omitempty"`
	FailureCode              *string     `json:"failure_code,omitempty"               yaml:"failure_code,omitempty"`
	FailureMessage           *string     `json:"failure_message,omitempty"            yaml:"failure_message,omitempty"`
	Livemode                 bool        `json:"livemode"                             yaml:"livemode"`
	Metadata                 Metadata    `json:"metadata,omitempty"                   yaml:"metadata,omitempty"`
	Source                   *Source     `json:"source,omitempty"                     yaml:"source,omitempty"`
	StatementDescriptor      *string     `json:"statement_descriptor,omitempty"       yaml:"statement_descriptor,omitempty"`
	Status                   TopUpStatus `json:"status"                               yaml:"status"`
	TransferGroup            *string     `json:"transfer_group,omitempty"             yaml:"transfer_group,omitempty"`
}

// TopUpList is a page of top-ups.
type TopUpList = ListResponse[TopUp]

// AuthorizationStatus is the state of an issuing authorization.
type AuthorizationStatus string

// Authorization states.
const (
	AuthorizationStatusClosed   AuthorizationStatus = "closed"
	AuthorizationStatusPending  AuthorizationStatus = "pending"
	AuthorizationStatusReversed AuthorizationStatus = "reversed"
)

// MerchantData describes the merchant of an authorization.
type MerchantData struct {
	Category   string  `json:"category"              yaml:"category"`
	City       *string `json:"city,omitempty"        yaml:"city,omitempty"`
	Country    *string `json:"country,omitempty"     yaml:"country,omitempty"`
	Name       *string `json:"name,omitempty"        yaml:"name,omitempty"`
	NetworkID  string  `json:"network_id"            yaml:"network_id"`
	PostalCode *string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	State      *string `json:"state,omitempty"       yaml:"state,omitempty"`
}

// Authorization is an issuing card authorization awaiting a decision.
type Authorization struct {
	ID                       string              `json:"id"                          yaml:"id"`
	Object                   string              `json:"object"                      yaml:"object"`
	Amount                   int64               `json:"amount"                      yaml:"amount"`
	Approved                 bool                `json:"approved"                    yaml:"approved"`
	AuthorizationMethod      string              `json:"authorization_method"        yaml:"authorization_method"`
	AuthorizedAmount         int64               `json:"authorized_amount"           yaml:"authorized_amount"`
	AuthorizedCurrency       Currency            `json:"authorized_currency"         yaml:"authorized_currency"`
	Card                     *IssuingCardRef     `json:"card,omitempty"              yaml:"card,omitempty"`
	Cardholder               *string             `json:"cardholder,omitempty"        yaml:"cardholder,omitempty"`
	Created                  int64               `json:"created"                     yaml:"created"`
	Currency                 Currency            `json:"currency"                    yaml:"currency"`
	HeldAmount               int64               `json:"held_amount"                 yaml:"held_amount"`
	HeldCurrency             Currency            `json:"held_currency"               yaml:"held_currency"`
	IsHeldAmountControllable bool                `json:"is_held_amount_controllable" yaml:"is_held_amount_controllable"`
	Livemode                 bool                `json:"livemode"                    yaml:"livemode"`
	MerchantData             *MerchantData       `json:"merchant_data,omitempty"     yaml:"merchant_data,omitempty"`
	Metadata                 Metadata            `json:"metadata,omitempty"          yaml:"metadata,omitempty"`
	PendingAuthorizedAmount  int64               `json:"pending_authorized_amount"   yaml:"pending_authorized_amount"`
	PendingHeldAmount        int64               `json:"pending_held_amount"         yaml:"pending_held_amount"`
	Status                   AuthorizationStatus `json:"status"                      yaml:"status"`
	Wallet                   *string             `json:"wallet,omitempty"            yaml:"wallet,omitempty"`
}

// IssuingCardRef is the card an authorization was made with.
type IssuingCardRef struct {
	ID    string `json:"id"    yaml:"id"`
	Brand string `json:"brand" yaml:"brand"`
	Last4 string `json:"last4" yaml:"last4"`
}

// AuthorizationList is a page of authorizations.
type AuthorizationList = ListResponse[Authorization]

// BalanceAmount is an amount in one currency.
type BalanceAmount struct {
	Amount      int64          `json:"amount"                 yaml:"amount"`
	Currency    Currency       `json:"currency"               yaml:"currency"`
	SourceTypes map[string]int `json:"source_types,omitempty" yaml:"source_types,omitempty"`
}

// Balance is the account balance.
type Balance struct {
	Object          string          `json:"object"                     yaml:"object"`
	Available       []BalanceAmount `json:"available"                  yaml:"available"`
	ConnectReserved []BalanceAmount `json:"connect_reserved,omitempty" yaml:"connect_reserved,omitempty"`
	Livemode        bool            `json:"livemode"                   yaml:"livemode"`
	Pending         []BalanceAmount `json:"pending"                    yaml:"pending"`
}

// FeeDetail is one component of a balance transaction fee.
type FeeDetail struct {
	Amount      int64    `json:"amount"                yaml:"amount"`
	Application *string  `json:"application,omitempty" yaml:"application,omitempty"`
	Currency    Currency `json:"currency"              yaml:"currency"`
	Description *string  `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string   `json:"type"                  yaml:"type"`
}

// BalanceTransaction is one movement of funds on the balance.
type BalanceTransaction struct {
	ID           string      `json:"id"                      yaml:"id"`
	Object       string      `json:"object"                  yaml:"object"`
	Amount       int64       `json:"amount"                  yaml:"amount"`
	AvailableOn  int64       `json:"available_on"            yaml:"available_on"`
	Created      int64       `json:"created"                 yaml:"created"`
	Currency     Currency    `json:"currency"                yaml:"currency"`
	Description  *string     `json:"description,omitempty"   yaml:"description,omitempty"`
	ExchangeRate *float64    `json:"exchange_rate,omitempty" yaml:"exchange_rate,omitempty"`
	Fee          int64       `json:"fee"                     yaml:"fee"`
	FeeDetails   []FeeDetail `json:"fee_details,omitempty"   yaml:"fee_details,omitempty"`
	Net          int64       `json:"net"                     yaml:"net"`
	Source       *string     `json:"source,omitempty"        yaml:"source,omitempty"`
	Status       string      `json:"status"                  yaml:"status"`
	Type         string      `json:"type"                    yaml:"type"`
}

// BalanceTransactionList is a page of balance transactions.
type BalanceTransactionList = ListResponse[BalanceTransaction]

// Location is a terminal location that groups readers.
type Location struct {
	ID          string   `json:"id"                 yaml:"id"`
	Object      string   `json:"object"             yaml:"object"`
	Address     *Address `json:"address,omitempty"  yaml:"address,omitempty"`
	DisplayName string   `json:"display_name"       yaml:"display_name"`
	Livemode    bool     `json:"livemode"           yaml:"livemode"`
	Metadata    Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LocationList is a page of terminal locations.
type LocationList = ListResponse[Location]

// PersonGender is the gender of a person.
type PersonGender string

// Person genders.
const (
	PersonGenderFemale PersonGender = "female"
	PersonGenderMale   PersonGender = "male"
)

// PersonRelationship describes how a person relates to the account.
type PersonRelationship struct {
	Director         bool     `json:"director"                    yaml:"director"`
	Executive        bool     `json:"executive"                   yaml:"executive"`
	Owner            bool     `json:"owner"                       yaml:"owner"`
	PercentOwnership *float64 `json:"percent_ownership,omitempty" yaml:"percent_ownership,omitempty"`
	Representative   bool     `json:"representative"              yaml:"representative"`
	Title            *string  `json:"title,omitempty"             yaml:"title,omitempty"`
}

// PersonVerification is the identity verification state of a person.
type PersonVerification struct {
	Details     *string `json:"details,omitempty"      yaml:"details,omitempty"`
	DetailsCode *string `json:"details_code,omitempty" yaml:"details_code,omitempty"`
	Status      string  `json:"status"                 yaml:"status"`
}

// Person is an individual associated with a connected account.
type Person struct {
	ID               string              `json:"id"                           yaml:"id"`
	Object           string              `json:"object"                       yaml:"object"`
	Account          string              `json:"account"                      yaml:"account"`
	Address          *Address            `json:"address,omitempty"            yaml:"address,omitempty"`
	Created          int64               `json:"created"                      yaml:"created"`
	DOB              *DateOfBirth        `json:"dob,omitempty"                yaml:"dob,omitempty"`
	Email            *string             `json:"email,omitempty"              yaml:"email,omitempty"`
	FirstName        *string             `json:"first_name,omitempty"         yaml:"first_name,omitempty"`
	Gender           *PersonGender       `json:"gender,omitempty"             yaml:"gender,omitempty"`
	IDNumberProvided bool                `json:"id_number_provided"           yaml:"id_number_provided"`
	LastName         *string             `json:"last_name,omitempty"          yaml:"last_name,omitempty"`
	MaidenName       *string             `json:"maiden_name,omitempty"        yaml:"maiden_name,omitempty"`
	Metadata         Metadata            `json:"metadata,omitempty"           yaml:"metadata,omitempty"`
	Phone            *string             `json:"phone,omitempty"              yaml:"phone,omitempty"`
	Relationship     *PersonRelationship `json:"relationship,omitempty"       yaml:"relationship,omitempty"`
	SSNLast4Provided bool                `json:"ssn_last_4_provided"          yaml:"ssn_last_4_provided"`
	Verification     *PersonVerification `json:"verification,omitempty"       yaml:"verification,omitempty"`
}

// PersonList is a page of persons.
type PersonList = ListResponse[Person]

// SourceType is the payment method of a source.
type SourceType string

// Source types.
const (
	SourceTypeACHCreditTransfer SourceType = "ach_credit_transfer"
	SourceTypeACHDebit          SourceType = "ach_debit"
	SourceTypeAlipay            SourceType = "alipay"
	SourceTypeBancontact        SourceType = "bancontact"
	SourceTypeCard              SourceType = "card"
	SourceTypeEPS               SourceType = "eps"
	SourceTypeGiropay           SourceType = "giropay"
	SourceTypeIDEAL             SourceType = "ideal"
	SourceTypeMultibanco        SourceType = "multibanco"
	SourceTypeP24               SourceType = "p24"
	SourceTypeSEPADebit         SourceType = "sepa_debit"
	SourceTypeSofort            SourceType = "sofort"
	SourceTypeThreeDSecure      SourceType = "three_d_secure"
	SourceTypeWechat            SourceType = "wechat"
)

// SourceFlow is the authentication flow of a source.
type SourceFlow string

// Source flows.
const (
	SourceFlowCodeVerification SourceFlow = "code_verification"
	SourceFlowNone             SourceFlow = "none"
	SourceFlowReceiver         SourceFlow = "receiver"
	SourceFlowRedirect         SourceFlow = "redirect"
)

// SourceUsage tells whether a source can be reused.
type SourceUsage string

// Source usages.
const (
	SourceUsageReusable  SourceUsage = "reusable"
	SourceUsageSingleUse SourceUsage = "single_use"
)

// SourceStatus is the state of a source.
type SourceStatus string

// Source states.
const (
	SourceStatusCanceled   SourceStatus = "canceled"
	SourceStatusChargeable SourceStatus = "chargeable"
	SourceStatusConsumed   SourceStatus = "consumed"
	SourceStatusFailed     SourceStatus = "failed"
	SourceStatusPending    SourceStatus = "pending"
)

// SourceOwner holds the owner information of a source.
type SourceOwner struct {
	Address *Address `json:"address,omitempty" yaml:"address,omitempty"`
	Email   *string  `json:"email,omitempty"   yaml:"email,omitempty"`
	Name    *string  `json:"name,omitempty"    yaml:"name,omitempty"`
	Phone   *string  `json:"phone,omitempty"   yaml:"phone,omitempty"`
}

// SourceRedirect holds redirect flow details.
type SourceRedirect struct {
	FailureReason *string `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
	ReturnURL     string  `json:"return_url"               yaml:"return_url"`
	Status        string  `json:"status"                   yaml:"status"`
	URL           string  `json:"url"                      yaml:"url"`
}

// Source is a reusable or single-use payment source.
type Source struct {
	ID                  string          `json:"id"                             yaml:"id"`
	Object              string          `json:"object"                         yaml:"object"`
	Amount              *int64          `json:"amount,omitempty"               yaml:"amount,omitempty"`
	ClientSecret        string          `json:"client_secret"                  yaml:"client_secret"`
	Created             int64           `json:"created"                        yaml:"created"`
	Currency            *Currency       `json:"currency,omitempty"             yaml:"currency,omitempty"`
	Customer            *string         `json:"customer,omitempty"             yaml:"customer,omitempty"`
	Flow                SourceFlow      `json:"flow"                           yaml:"flow"`
	Livemode            bool            `json:"livemode"                       yaml:"livemode"`
	Metadata            Metadata        `json:"metadata,omitempty"             yaml:"metadata,omitempty"`
	Owner               *SourceOwner    `json:"owner,omitempty"                yaml:"owner,omitempty"`
	Redirect            *SourceRedirect `json:"redirect,omitempty"             yaml:"redirect,omitempty"`
	StatementDescriptor *string         `json:"statement_descriptor,omitempty" yaml:"statement_descriptor,omitempty"`
	Status              SourceStatus    `json:"status"                         yaml:"status"`
	Type                SourceType      `json:"type"                           yaml:"type"`
	Usage               *SourceUsage    `json:"usage,omitempty"                yaml:"usage,omitempty"`
}
