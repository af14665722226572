package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a set of users sharing expenses with each other.
//
// Group and membership management is a collaborator concern; the model
// exists so that membership checks and member snapshots are real.
type Group struct {
	DefaultModel
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"createdBy"`
	Members   []User    `json:"-" gorm:"many2many:group_members"`
}

func (g *Group) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return ErrNameEmpty
	}

	return nil
}
