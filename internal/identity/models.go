package identity

// User is the device-session identity. It is created once per session via a
// name-only login; IsDj mirrors the device's current mode, it is not a
// durable credential.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsAnonymous bool   `json:"isAnonymous"`
	IsDj        bool   `json:"isDj"`
}

// DocumentName is the persisted document key, kept stable so existing data
// files keep loading.
const DocumentName = "user-storage"

type document struct {
	CurrentUser *User `json:"currentUser"`
	IsDjMode    bool  `json:"isDjMode"`
}
