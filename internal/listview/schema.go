package listview

import (
	"fmt"
	"strconv"
	"time"

	"github.com/straye-as/client-admin/internal/domain"
)

// zero-padded so ids compare numerically as text
func idKey(id int64) string { return fmt.Sprintf("%020d", id) }

func timeKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%09d", t.Format("20060102150405"), t.Nanosecond())
}

// ClientSchema searches names, email and location
var ClientSchema = Schema[domain.Client]{
	Text: func(c domain.Client) []string {
		return []string{c.FullName, c.DisplayName, c.Email, c.Location}
	},
	SortValue: func(c domain.Client, key string) (string, bool) {
		switch key {
		case "id":
			return idKey(c.ID), true
		case "fullName":
			return c.FullName, true
		case "displayName":
			return c.DisplayName, true
		case "email":
			return c.Email, true
		case "location":
			return c.Location, true
		case "details":
			return c.Details, true
		case "active":
			return strconv.FormatBool(c.Active), true
		}
		return "", false
	},
}

// DraftSchema searches the same fields as ClientSchema plus the author
var DraftSchema = Schema[domain.Draft]{
	Text: func(d domain.Draft) []string {
		return []string{d.FullName, d.DisplayName, d.Email, d.Location, d.CreatedByEmail, d.CreatedByName}
	},
	SortValue: func(d domain.Draft, key string) (string, bool) {
		switch key {
		case "id":
			return idKey(d.ID), true
		case "fullName":
			return d.FullName, true
		case "displayName":
			return d.DisplayName, true
		case "email":
			return d.Email, true
		case "location":
			return d.Location, true
		case "active":
			return strconv.FormatBool(d.Active), true
		case "createdBy":
			return d.CreatedByEmail, true
		case "createdAt":
			return timeKey(d.CreatedAt), true
		case "updatedAt":
			return timeKey(d.UpdatedAt), true
		}
		return "", false
	},
}

// LogSchema searches action, entity type and actor
var LogSchema = Schema[domain.AuditLog]{
	Text: func(l domain.AuditLog) []string {
		return []string{l.Action, l.EntityType, l.ActorEmail, l.ActorName}
	},
	SortValue: func(l domain.AuditLog, key string) (string, bool) {
		switch key {
		case "id":
			return idKey(l.ID), true
		case "action":
			return l.Action, true
		case "entityType":
			return l.EntityType, true
		case "entityId":
			return idKey(l.EntityID), true
		case "actor":
			return l.ActorEmail, true
		case "timestamp":
			return timeKey(l.Timestamp), true
		}
		return "", false
	},
}
