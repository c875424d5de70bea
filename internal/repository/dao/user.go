package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email string `gorm:"unique;not null"`
	Name  string `gorm:"not null"`
	Phone string
	Role  string `gorm:"not null;default:client"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	if err := d.db.WithContext(ctx).Create(&user).Error; err != nil {
		return User{}, mapError(err)
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	if err := d.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return User{}, mapError(err)
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	if err := d.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return User{}, mapError(err)
	}

	return user, nil
}
