package models

import (
	"context"
	"errors"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"

	"github.com/buildbooks/buildbooks_backend/config"
	"github.com/buildbooks/buildbooks_backend/utils"
)

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

type Supplier struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ProjectId     string    `gorm:"uniqueIndex:idx_supplier_project_name;not null" json:"project_id"`
	Name          string    `gorm:"size:255;uniqueIndex:idx_supplier_project_name;not null" json:"name" binding:"required"`
	ContactPerson string    `gorm:"size:100" json:"contact_person"`
	Phone         string    `gorm:"size:50" json:"phone"`
	Email         string    `gorm:"size:100" json:"email"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	if input.Phone != "" && !utils.IsValidPhoneNumber(input.Phone) {
		return nil, utils.NewValidationError("phone", "is not a valid phone number")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("email", "is not a valid email address")
	}

	supplier := Supplier{
		ProjectId:     projectId,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, utils.NewValidationError("name", "already exists in this project")
		}
		return nil, err
	}
	return &supplier, nil
}

func ListSuppliers(ctx context.Context) ([]Supplier, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var suppliers []Supplier
	db := config.GetDB()
	err := db.WithContext(ctx).Where("project_id = ?", projectId).Order("name ASC").Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}
