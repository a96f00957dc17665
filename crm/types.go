package crm

// Contact is the body of an upsert. Tags and notes are applied by separate
// calls, so they have no place here.
type Contact struct {
	OptInReason     string         `json:"opt_in_reason"`
	DuplicateOption string         `json:"duplicate_option"`
	SourceType      string         `json:"source_type"`
	EmailAddresses  []EmailAddress `json:"email_addresses"`
	GivenName       string         `json:"given_name"`
	FamilyName      string         `json:"family_name"`
	LeadSourceID    int            `json:"lead_source_id"`
	Addresses       []Address      `json:"addresses"`
	PhoneNumbers    []PhoneNumber  `json:"phone_numbers"`
	Prefix          string         `json:"prefix"`
	CustomFields    []CustomField  `json:"custom_fields"`
}

type EmailAddress struct {
	Email string `json:"email"`
	Field string `json:"field"`
}

type Address struct {
	CountryCode string `json:"country_code"`
	Field       string `json:"field"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	Locality    string `json:"locality"`
	PostalCode  string `json:"postal_code"`
	Region      string `json:"region"`
	ZipCode     string `json:"zip_code"`
	ZipFour     string `json:"zip_four"`
}

type PhoneNumber struct {
	Extension string `json:"extension"`
	Field     string `json:"field"`
	Number    string `json:"number"`
	Type      string `json:"type"`
}

// CustomField content is whatever JSON the CRM returns; we always send strings.
type CustomField struct {
	ID      int `json:"id"`
	Content any `json:"content"`
}

// PrimaryEmail returns the address to search by.
func (c Contact) PrimaryEmail() string {
	if len(c.EmailAddresses) == 0 {
		return ""
	}
	return c.EmailAddresses[0].Email
}

// CustomFieldString returns the string content of field id. Non string
// content is reported as absent.
func (c Contact) CustomFieldString(id int) (string, bool) {
	return customFieldString(c.CustomFields, id)
}

// ContactSummary is a contact as returned by a search.
type ContactSummary struct {
	ID             int64          `json:"id"`
	GivenName      string         `json:"given_name"`
	FamilyName     string         `json:"family_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	CustomFields   []CustomField  `json:"custom_fields"`
}

func (c ContactSummary) CustomFieldString(id int) (string, bool) {
	return customFieldString(c.CustomFields, id)
}

type SearchResult struct {
	Count    int              `json:"count"`
	Contacts []ContactSummary `json:"contacts"`
}

// UpsertResult carries the contact id and the full decoded response.
type UpsertResult struct {
	ID  int64
	Raw map[string]any
}

type tagsRequest struct {
	TagIDs []int `json:"tagIds"`
}

type noteRequest struct {
	ContactID int64  `json:"contact_id"`
	Body      string `json:"body"`
}

func customFieldString(fields []CustomField, id int) (string, bool) {
	for _, f := range fields {
		if f.ID != id {
			continue
		}
		s, ok := f.Content.(string)
		return s, ok
	}
	return "", false
}
