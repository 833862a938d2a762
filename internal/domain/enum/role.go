package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Role represents a user role within a business
type Role int

const (
	RoleSuperAdmin Role = 1
	RoleManager    Role = 2
	RoleAccountant Role = 3
	RoleSales      Role = 4
	RoleRetailer   Role = 5
	RoleWorkshop   Role = 6
)

var roleNames = map[Role]string{
	RoleSuperAdmin: "super-admin",
	RoleManager:    "manager",
	RoleAccountant: "accountant",
	RoleSales:      "sales",
	RoleRetailer:   "retailer",
	RoleWorkshop:   "workshop",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsCustomer reports whether the role is an account-holder role
// (retailers and workshops carry a ledger; staff roles do not).
func (r Role) IsCustomer() bool {
	return r == RoleRetailer || r == RoleWorkshop
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = Role(i)
		return nil
	}
	for role, name := range roleNames {
		if name == str {
			*r = role
			return nil
		}
	}
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *Role) Scan(value interface{}) error {
	if value == nil {
		*r = RoleRetailer
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = Role(v)
	case int:
		*r = Role(v)
	}
	return nil
}
