package main

import (
	"context"

	"github.com/foodiesthlm/foodie-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Pg struct {
	db *gorm.DB
}

func NewPg(connString string) (*Pg, error) {
	db, err := gorm.Open(postgres.Open(connString), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return &Pg{
		db: db,
	}, nil
}

func (p *Pg) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return p.db.WithContext(ctx).Create(notification).Error
}
