package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"shop-admin/internal/database"
	"shop-admin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const userReferencedMessage = "cannot delete user: it is referenced by other records (such as a client)"

type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsStaff   bool
	IsActive  *bool
	RoleIDs   []uint
}

// UpdateUserInput leaves fields that are nil unchanged.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	IsStaff   *bool
	IsActive  *bool
	RoleIDs   *[]uint
}

type UserService struct {
	db    *gorm.DB
	audit Auditor
}

func NewUserService(db *gorm.DB, audit Auditor) *UserService {
	return &UserService{db: db, audit: auditorOrNop(audit)}
}

func preloadRoles(db *gorm.DB) *gorm.DB {
	return db.Order("roles.id")
}

func (s *UserService) List(ctx context.Context, p ListParams) (Page[models.User], error) {
	p.normalize()
	q := searchLike(s.db.WithContext(ctx).Model(&models.User{}), p.Search, "username", "email", "first_name", "last_name")
	return paginate[models.User](q, p, "id", "Roles")
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.load(s.db.WithContext(ctx), id)
}

func (s *UserService) load(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.Preload("Roles", preloadRoles).First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, actor database.Actor, in CreateUserInput) (*models.User, error) {
	if strings.TrimSpace(in.Password) == "" {
		return nil, FieldInvalid("password", "password is required")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsStaff:      in.IsStaff,
		IsActive:     true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles, err := findRoles(tx, in.RoleIDs)
		if err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return writeErr(err, "user", "username")
		}
		if len(roles) > 0 {
			if err := tx.Model(&user).Association("Roles").Append(roles); err != nil {
				return writeErr(err, "user", "username")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionCreate,
		fmt.Sprintf("User '%s' created with email '%s' and role '%s'", created.Username, created.Email, created.FirstRoleName()),
		models.ModuleAdministration)
	return created, nil
}

func (s *UserService) Update(ctx context.Context, actor database.Actor, id uint, in UpdateUserInput) (*models.User, error) {
	var before struct {
		username, email string
		roles           []string
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.load(tx, id)
		if err != nil {
			return err
		}
		before.username = user.Username
		before.email = user.Email
		before.roles = sortedCopy(user.RoleNames())

		if in.Username != nil {
			user.Username = strings.TrimSpace(*in.Username)
		}
		if in.Email != nil {
			user.Email = strings.TrimSpace(*in.Email)
		}
		if in.FirstName != nil {
			user.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			user.LastName = *in.LastName
		}
		if in.IsStaff != nil {
			user.IsStaff = *in.IsStaff
		}
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
		}
		if in.Password != nil && *in.Password != "" {
			hash, err := hashPassword(*in.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return writeErr(err, "user", "username")
		}

		if in.RoleIDs != nil {
			roles, err := findRoles(tx, *in.RoleIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(user).Association("Roles")
			if len(roles) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(roles)
			}
			if err != nil {
				return fmt.Errorf("failed to assign roles: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes []string
	if updated.Username != before.username {
		changes = append(changes, fmt.Sprintf("username: '%s' → '%s'", before.username, updated.Username))
	}
	if updated.Email != before.email {
		changes = append(changes, fmt.Sprintf("email: '%s' → '%s'", before.email, updated.Email))
	}
	afterRoles := sortedCopy(updated.RoleNames())
	if !slices.Equal(before.roles, afterRoles) {
		changes = append(changes, fmt.Sprintf("roles: '%s' → '%s'", joinOr(before.roles, "No role"), joinOr(afterRoles, "No role")))
	}

	desc := fmt.Sprintf("User '%s' updated", updated.Username)
	if len(changes) > 0 {
		desc += ". Changes: " + strings.Join(changes, ", ")
	} else {
		desc += ". No changes detected"
	}
	s.audit.Record(ctx, actor, models.ActionEdit, desc, models.ModuleAdministration)
	return updated, nil
}

// Delete removes the user and its role assignments. A user still referenced
// through a restricting foreign key is kept and ERR_REFERENCED is returned.
func (s *UserService) Delete(ctx context.Context, actor database.Actor, id uint) error {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.load(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Select("Roles").Delete(user).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				e := Referenced(userReferencedMessage)
				e.Err = err
				return e
			}
			return deleteErr(err, "user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor, models.ActionDelete,
		fmt.Sprintf("User '%s' deleted. Had email '%s' and role '%s'", user.Username, user.Email, user.FirstRoleName()),
		models.ModuleAdministration)
	return nil
}

func findRoles(tx *gorm.DB, ids []uint) ([]models.Role, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []models.Role
	if err := tx.Where("id IN ?", ids).Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	if len(roles) != len(ids) {
		return nil, FieldInvalid("role_ids", "one or more roles do not exist")
	}
	return roles, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", FieldInvalid("password", "password is too long")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
