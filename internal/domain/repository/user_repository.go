package repository

import (
	"context"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	// CreateWithPatientProfile inserts the user and its patient profile in a
	// single transaction.
	CreateWithPatientProfile(ctx context.Context, user *entity.User, profile *entity.PatientProfile) error

	// CreateWithDoctorProfile inserts the user and its doctor profile in a
	// single transaction.
	CreateWithDoctorProfile(ctx context.Context, user *entity.User, profile *entity.DoctorProfile) error

	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
