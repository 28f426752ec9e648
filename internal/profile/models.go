package profile

// DjProfile is the DJ-facing configuration, a singleton per installation.
// Bio carries no omitempty: its default is non-empty, so a cleared bio must
// still appear in the stored document to survive the round trip.
type DjProfile struct {
	Name              string       `json:"name"`
	Bio               string       `json:"bio"`
	PaymentInfo       *PaymentInfo `json:"paymentInfo,omitempty"`
	AcceptingRequests bool         `json:"acceptingRequests"`
	MinTipAmount      float64      `json:"minTipAmount"`
}

type PaymentInfo struct {
	Venmo   string `json:"venmo,omitempty"`
	Cashapp string `json:"cashapp,omitempty"`
	Paypal  string `json:"paypal,omitempty"`
}

// Update is a partial profile edit; nil fields are left untouched.
// PaymentInfo merges field-by-field as well.
type Update struct {
	Name              *string        `json:"name,omitempty"`
	Bio               *string        `json:"bio,omitempty"`
	PaymentInfo       *PaymentUpdate `json:"paymentInfo,omitempty"`
	AcceptingRequests *bool          `json:"acceptingRequests,omitempty"`
	MinTipAmount      *float64       `json:"minTipAmount,omitempty"`
}

type PaymentUpdate struct {
	Venmo   *string `json:"venmo,omitempty"`
	Cashapp *string `json:"cashapp,omitempty"`
	Paypal  *string `json:"paypal,omitempty"`
}

const DocumentName = "dj-storage"

func defaultProfile() DjProfile {
	return DjProfile{
		Name:              "DJ",
		Bio:               "Ready to take your requests!",
		PaymentInfo:       &PaymentInfo{},
		AcceptingRequests: true,
		MinTipAmount:      1,
	}
}
