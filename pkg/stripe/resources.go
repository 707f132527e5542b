package stripe

// Parameter structs for the resource operations. Pointer and nil fields are
// absent and never sent, so update calls only touch what is set.

// TopUpCreateParams are the parameters for creating a top-up.
type TopUpCreateParams struct {
	Amount              int64
	Currency            Currency
	Description         *string
	Metadata            Metadata
	Source              *string
	StatementDescriptor *string
	TransferGroup       *string
}

// Params converts the struct into request parameters.
func (p *TopUpCreateParams) Params() *Params {
	return NewParams().
		Set("amount", Int(p.Amount)).
		Set("currency", Str(string(p.Currency))).
		Set("description", OptStr(p.Description)).
		Set("metadata", StrMap(p.Metadata)).
		Set("source", OptStr(p.Source)).
		Set("statement_descriptor", OptStr(p.StatementDescriptor)).
		Set("transfer_group", OptStr(p.TransferGroup))
}

// TopUpUpdateParams are the parameters for updating a top-up.
type TopUpUpdateParams struct {
	Description *string
	Metadata    Metadata
}

// Params converts the struct into request parameters.
func (p *TopUpUpdateParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().
		Set("description", OptStr(p.Description)).
		Set("metadata", StrMap(p.Metadata))
}

// AuthorizationUpdateParams are the parameters for updating an authorization.
type AuthorizationUpdateParams struct {
	Metadata Metadata
}

// Params converts the struct into request parameters.
func (p *AuthorizationUpdateParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().Set("metadata", StrMap(p.Metadata))
}

// AuthorizationApproveParams are the parameters for approving an
// authorization. HeldAmount lowers the amount held when the authorization
// allows it.
type AuthorizationApproveParams struct {
	HeldAmount *int64
	Metadata   Metadata
}

// Params converts the struct into request parameters.
func (p *AuthorizationApproveParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().
		Set("held_amount", OptInt(p.HeldAmount)).
		Set("metadata", StrMap(p.Metadata))
}

// LocationCreateParams are the parameters for creating a terminal location.
type LocationCreateParams struct {
	Address     Address
	DisplayName string
	Metadata    Metadata
}

// Params converts the struct into request parameters.
func (p *LocationCreateParams) Params() *Params {
	return NewParams().
		Set("address", p.Address.Params()).
		Set("display_name", Str(p.DisplayName)).
		Set("metadata", StrMap(p.Metadata))
}

// LocationUpdateParams are the parameters for updating a terminal location.
type LocationUpdateParams struct {
	Address     *Address
	DisplayName *string
	Metadata    Metadata
}

// Params converts the struct into request parameters.
func (p *LocationUpdateParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().
		Set("address", OptParams(p.Address.Params())).
		Set("display_name", OptStr(p.DisplayName)).
		Set("metadata", StrMap(p.Metadata))
}

// PersonRelationshipParams updates how a person relates to the account.
type PersonRelationshipParams struct {
	Director         *bool
	Executive        *bool
	Owner            *bool
	PercentOwnership *float64
	Representative   *bool
	Title            *string
}

// Params converts the struct into request parameters.
func (p *PersonRelationshipParams) Params() *Params {
	if p == nil {
		return nil
	}

	params := NewParams().
		Set("director", OptBool(p.Director)).
		Set("executive", OptBool(p.Executive)).
		Set("owner", OptBool(p.Owner))

	if p.PercentOwnership != nil {
		params.Set("percent_ownership", Float(*p.PercentOwnership))
	}

	return params.
		Set("representative", OptBool(p.Representative)).
		Set("title", OptStr(p.Title))
}

// PersonVerificationParams carries identity documents, referenced by file id.
type PersonVerificationParams struct {
	DocumentBack  *string
	DocumentFront *string
}

// Params converts the struct into request parameters.
func (p *PersonVerificationParams) Params() *Params {
	if p == nil || (p.DocumentBack == nil && p.DocumentFront == nil) {
		return nil
	}

	return NewParams().Set("document", NewParams().
		Set("back", OptStr(p.DocumentBack)).
		Set("front", OptStr(p.DocumentFront)))
}

// PersonParams are the parameters for creating or updating a person.
type PersonParams struct {
	Address      *Address
	DOB          *DateOfBirth
	Email        *string
	FirstName    *string
	Gender       *PersonGender
	IDNumber     *string
	LastName     *string
	MaidenName   *string
	Metadata     Metadata
	Phone        *string
	Relationship *PersonRelationshipParams
	SSNLast4     *string
	Verification *PersonVerificationParams
}

// Params converts the struct into request parameters.
func (p *PersonParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().
		Set("address", OptParams(p.Address.Params())).
		Set("dob", OptParams(p.DOB.Params())).
		Set("email", OptStr(p.Email)).
		Set("first_name", OptStr(p.FirstName)).
		Set("gender", OptEnum(p.Gender)).
		Set("id_number", OptStr(p.IDNumber)).
		Set("last_name", OptStr(p.LastName)).
		Set("maiden_name", OptStr(p.MaidenName)).
		Set("metadata", StrMap(p.Metadata)).
		Set("phone", OptStr(p.Phone)).
		Set("relationship", OptParams(p.Relationship.Params())).
		Set("ssn_last_4", OptStr(p.SSNLast4)).
		Set("verification", OptParams(p.Verification.Params()))
}

// SourceOwnerParams describes the owner of a source.
type SourceOwnerParams struct {
	Address *Address
	Email   *string
	Name    *string
	Phone   *string
}

// Params converts the struct into request parameters.
func (p *SourceOwnerParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().
		Set("address", OptParams(p.Address.Params())).
		Set("email", OptStr(p.Email)).
		Set("name", OptStr(p.Name)).
		Set("phone", OptStr(p.Phone))
}

// SourceCreateParams are the parameters for creating a source. Mandate is
// passed through as given since its shape depends on the source type.
type SourceCreateParams struct {
	Type                 SourceType
	Amount               *int64
	Currency             *Currency
	Flow                 *SourceFlow
	Mandate              *Params
	Metadata             Metadata
	Owner                *SourceOwnerParams
	ReceiverRefundMethod *string
	RedirectReturnURL    *string
	StatementDescriptor  *string
	Token                *string
	Usage                *SourceUsage
}

// Params converts the struct into request parameters.
func (p *SourceCreateParams) Params() *Params {
	params := NewParams().
		Set("type", Str(string(p.Type))).
		Set("amount", OptInt(p.Amount)).
		Set("currency", OptEnum(p.Currency)).
		Set("flow", OptEnum(p.Flow)).
		Set("mandate", OptParams(p.Mandate)).
		Set("metadata", StrMap(p.Metadata)).
		Set("owner", OptParams(p.Owner.Params()))

	if p.ReceiverRefundMethod != nil {
		params.Set("receiver", NewParams().Set("refund_attributes_method", Str(*p.ReceiverRefundMethod)))
	}

	if p.RedirectReturnURL != nil {
		params.Set("redirect", NewParams().Set("return_url", Str(*p.RedirectReturnURL)))
	}

	return params.
		Set("statement_descriptor", OptStr(p.StatementDescriptor)).
		Set("token", OptStr(p.Token)).
		Set("usage", OptEnum(p.Usage))
}

// SourceUpdateParams are the parameters for updating a source.
type SourceUpdateParams struct {
	Mandate  *Params
	Metadata Metadata
	Owner    *SourceOwnerParams
}

// Params converts the struct into request parameters.
func (p *SourceUpdateParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().
		Set("mandate", OptParams(p.Mandate)).
		Set("metadata", StrMap(p.Metadata)).
		Set("owner", OptParams(p.Owner.Params()))
}

// SourceRetrieveParams are the parameters for retrieving a source.
type SourceRetrieveParams struct {
	ClientSecret *string
}

// Params converts the struct into request parameters.
func (p *SourceRetrieveParams) Params() *Params {
	if p == nil {
		return nil
	}

	return NewParams().Set("client_secret", OptStr(p.ClientSecret))
}
