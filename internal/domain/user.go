package domain

// Credential is an opaque bearer token issued by the ledger at login.
type Credential string

// Tokens holds the token pair returned by a successful login.
type Tokens struct {
	Access  Credential `json:"access"`
	Refresh Credential `json:"refresh"`
}

// Profile holds the user data shown next to the accounts.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// Card holds a payment card of the user.
type Card struct {
	ID         int64  `json:"id"`
	User       string `json:"user"`
	Number     string `json:"card_number"`
	Status     string `json:"card_Status"`
	CreatedOn  string `json:"created_on"`  // YYYY-MM-DD
	ExpiryDate string `json:"expiry_Date"` // YYYY-MM-DD
}

// Session is the ledger answer to a successful login.
type Session struct {
	Tokens Tokens  `json:"tokens"`
	User   Profile `json:"user"`
}
