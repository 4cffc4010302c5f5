package model

// Affiliate is the clinic member receiving attention. Affiliate
// administration happens elsewhere; this core only reads affiliates
// to validate booking references and to decorate listings and cash
// rows with display data.
//
// Fields:
//  ID       – primary key identifier.
//  Number   – membership number shown on cash rows.
//  Document – identity document number.
//  LastName – family name.
//  Name     – given name.
//  Tier     – the affiliate's pricing tier.
//  Active   – membership flag.
type Affiliate struct {
	ID       uint64 `json:"id"`
	Number   string `json:"number"`
	Document string `json:"document"`
	LastName string `json:"last_name"`
	Name     string `json:"name"`
	Tier     Tier   `json:"tier"`
	Active   bool   `json:"active"`
}

// DisplayName returns "LastName, Name" for listings.
func (a *Affiliate) DisplayName() string {
	if a.LastName == "" {
		return a.Name
	}
	if a.Name == "" {
		return a.LastName
	}
	return a.LastName + ", " + a.Name
}
