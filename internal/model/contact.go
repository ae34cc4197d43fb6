// internal/model/contact.go
package model

import "time"

type ContactGroup struct {
    ID        int       `db:"id" json:"id"`
    Name      string    `db:"name" json:"name"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Contact struct {
    ID        int    `db:"id" json:"id"`
    GroupID   int    `db:"group_id" json:"group_id"`
    Phone     string `db:"phone" json:"phone"`
    FirstName string `db:"first_name" json:"first_name"`
    LastName  string `db:"last_name" json:"last_name"`
    DoNotCall bool   `db:"do_not_call" json:"do_not_call"`
}
