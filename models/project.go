package models

import (
	"context"
	"errors"
	"time"

	"github.com/buildbooks/buildbooks_backend/config"
	"github.com/buildbooks/buildbooks_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Currency  string    `gorm:"size:10;default:'MMK'" json:"currency"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {
	project := Project{
		ID:       uuid.New(),
		Name:     input.Name,
		Currency: input.Currency,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func GetProject(ctx context.Context, projectId string) (*Project, error) {
	var project Project
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", projectId).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &project, nil
}
