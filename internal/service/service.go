// Package service holds the business operations behind the HTTP handlers.
// Services talk to gorm directly and return *Error for anything a client
// can act on.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"shop-admin/internal/database"

	"gorm.io/gorm"
)

// Auditor records administrative actions. database.AuditRecorder is the
// production implementation.
type Auditor interface {
	Record(ctx context.Context, actor database.Actor, action, description, module string)
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, database.Actor, string, string, string) {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

// exists reports whether a row of model with the given primary key exists.
func exists(tx *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// requireRef validates an optional foreign key before writing it.
func requireRef(tx *gorm.DB, model any, id *uint, field, resource string) error {
	if id == nil {
		return nil
	}
	ok, err := exists(tx, model, *id)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", resource, err)
	}
	if !ok {
		return FieldInvalid(field, resource+" does not exist")
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// setDiff returns the sorted members of a that are not in b.
func setDiff(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := in[s]; !ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func joinOr(names []string, empty string) string {
	if len(names) == 0 {
		return empty
	}
	return strings.Join(names, ", ")
}
