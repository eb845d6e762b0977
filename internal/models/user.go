package models

import (
	"encoding/json"

	"github.com/anjan-ust/task-weaver-main/internal/types"
	"gorm.io/datatypes"
)

// User is the authentication record paired 1:1 with an Employee, keyed by
// the employee id. Roles live in a JSON column because membership grows
// over time as a side effect of task assignment.
type User struct {
	EID      uint           `gorm:"primaryKey;column:e_id" json:"e_id"`
	Password string         `gorm:"size:100;not null" json:"-"`
	Roles    datatypes.JSON `gorm:"type:jsonb;not null" json:"roles"`
	Status   string         `gorm:"size:20;not null;default:'active'" json:"status"`
}

func (User) TableName() string {
	return "users"
}

// RoleList decodes the stored role set into canonical roles. Entries that
// no longer parse (legacy dotted enum names included) are normalized; a
// row that cannot be decoded at all yields an empty set.
func (u *User) RoleList() []types.Role {
	var raw []string

	if err := json.Unmarshal(u.Roles, &raw); err != nil {
		return nil
	}

	var roles []types.Role

	for _, entry := range raw {
		role, err := types.ParseRole(entry)
		if err != nil {
			continue
		}
		if !types.ContainsRole(roles, role) {
			roles = append(roles, role)
		}
	}

	return roles
}

func (u *User) HasRole(role types.Role) bool {
	return types.ContainsRole(u.RoleList(), role)
}

func (u *User) SetRoles(roles []types.Role) error {
	encoded, err := json.Marshal(roles)

	if err != nil {
		return err
	}

	u.Roles = datatypes.JSON(encoded)
	return nil
}

// EncodeRoles builds the JSON column value for a role list.
func EncodeRoles(roles []types.Role) (datatypes.JSON, error) {
	encoded, err := json.Marshal(roles)

	if err != nil {
		return nil, err
	}

	return datatypes.JSON(encoded), nil
}
