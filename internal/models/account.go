package models

// Role identifies which side of the board an account belongs to.
type Role string

const (
	RoleNGO       Role = "NGO"
	RoleVolunteer Role = "Volunteer"
)

// ParseRole maps a URL path segment ("ngo", "volunteer") to a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "ngo", "NGO":
		return RoleNGO, true
	case "volunteer", "Volunteer":
		return RoleVolunteer, true
	}
	return "", false
}

// NGOAccount is an organization account. Email is the unique key within the
// NGO collection; uniqueness is checked case-sensitively at creation only.
type NGOAccount struct {
	OrgName     string `json:"orgName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	DarpanID    string `json:"darpanId"`
	Password    string `json:"password"` // bcrypt hash at rest
	CreatedAt   int64  `json:"createdAt"`
}

// VolunteerAccount is an individual volunteer account. Email is the unique
// key within the volunteer collection; an NGO and a volunteer may share an
// email (no cross-role uniqueness).
type VolunteerAccount struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	AadhaarNo string `json:"aadhaarNo"`
	Password  string `json:"password"` // bcrypt hash at rest
	CreatedAt int64  `json:"createdAt"`
}

// NGOAccountPublic is NGOAccount without the password hash for API responses.
type NGOAccountPublic struct {
	OrgName     string `json:"orgName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	DarpanID    string `json:"darpanId"`
	CreatedAt   int64  `json:"createdAt"`
}

// VolunteerAccountPublic is VolunteerAccount without the password hash.
type VolunteerAccountPublic struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	AadhaarNo string `json:"aadhaarNo"`
	CreatedAt int64  `json:"createdAt"`
}

// ToPublic converts an NGOAccount for API responses.
func (a *NGOAccount) ToPublic() NGOAccountPublic {
	return NGOAccountPublic{
		OrgName:     a.OrgName,
		ContactName: a.ContactName,
		Email:       a.Email,
		DarpanID:    a.DarpanID,
		CreatedAt:   a.CreatedAt,
	}
}

// ToPublic converts a VolunteerAccount for API responses.
func (a *VolunteerAccount) ToPublic() VolunteerAccountPublic {
	return VolunteerAccountPublic{
		FullName:  a.FullName,
		Email:     a.Email,
		AadhaarNo: a.AadhaarNo,
		CreatedAt: a.CreatedAt,
	}
}
