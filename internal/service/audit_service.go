package service

import (
	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService records write operations inside the caller's transaction.
type AuditService interface {
	LogCreate(tx *gorm.DB, actorID *uuid.UUID, action string, target AuditTarget, created interface{}) error
	LogUpdate(tx *gorm.DB, actorID *uuid.UUID, action string, target AuditTarget, before, after interface{}) error
	LogDelete(tx *gorm.DB, actorID *uuid.UUID, action string, target AuditTarget, deleted interface{}) error
}

// AuditTarget identifies the record an audit entry is about
type AuditTarget struct {
	Kind string
	ID   string
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(tx *gorm.DB, actorID *uuid.UUID, action string, target AuditTarget, created interface{}) error {
	return s.record(tx, actorID, action, target, nil, created)
}

func (s *auditService) LogUpdate(tx *gorm.DB, actorID *uuid.UUID, action string, target AuditTarget, before, after interface{}) error {
	return s.record(tx, actorID, action, target, before, after)
}

func (s *auditService) LogDelete(tx *gorm.DB, actorID *uuid.UUID, action string, target AuditTarget, deleted interface{}) error {
	return s.record(tx, actorID, action, target, deleted, nil)
}

func (s *auditService) record(tx *gorm.DB, actorID *uuid.UUID, action string, target AuditTarget, before, after interface{}) error {
	auditLog := &entity.AuditLog{
		UserID: actorID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    target.Kind,
			"entity_id": target.ID,
			"old_value": before,
			"new_value": after,
		},
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log for %s: %+v", action, err)
		return err
	}

	return nil
}
