package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

type quizRecord struct {
	ID        string           `gorm:"primaryKey"`
	Name      string           `gorm:"not null"`
	Questions []questionRecord `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (quizRecord) TableName() string { return "quizzes" }

type questionRecord struct {
	ID            uint   `gorm:"primaryKey"`
	QuizID        string `gorm:"index;not null"`
	OrderNum      int
	Text          string
	Options       []string `gorm:"serializer:json"`
	CorrectAnswer int
}

func (questionRecord) TableName() string { return "questions" }

// GormStore is the database-backed Catalog.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&quizRecord{}, &questionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate quiz tables: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) GetQuiz(ctx context.Context, id string) (*Quiz, error) {
	var rec quizRecord
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRecord(&rec), nil
}

func (s *GormStore) ListQuizzes(ctx context.Context) ([]*Quiz, error) {
	var recs []quizRecord
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Order("name ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]*Quiz, len(recs))
	for i := range recs {
		out[i] = fromRecord(&recs[i])
	}
	return out, nil
}

func (s *GormStore) ListSummaries(ctx context.Context) ([]types.QuizSummary, error) {
	quizzes, err := s.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.QuizSummary, len(quizzes))
	for i, q := range quizzes {
		summaries[i] = q.Summary()
	}
	return summaries, nil
}

func (s *GormStore) CreateQuiz(ctx context.Context, q *Quiz) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	rec := toRecord(q)
	rec.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *GormStore) UpdateQuiz(ctx context.Context, q *Quiz) error {
	if err := q.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing quizRecord
		if err := tx.First(&existing, "id = ?", q.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("quiz_id = ?", q.ID).Delete(&questionRecord{}).Error; err != nil {
			return err
		}
		rec := toRecord(q)
		rec.ID = q.ID
		return tx.Save(rec).Error
	})
}

func (s *GormStore) DeleteQuiz(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&quizRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Where("quiz_id = ?", id).Delete(&questionRecord{}).Error
}

func fromRecord(rec *quizRecord) *Quiz {
	q := &Quiz{ID: rec.ID, Name: rec.Name, Questions: make([]Question, len(rec.Questions))}
	for i, qr := range rec.Questions {
		q.Questions[i] = Question{Text: qr.Text, Options: qr.Options, CorrectAnswer: qr.CorrectAnswer}
	}
	return q
}

func toRecord(q *Quiz) *quizRecord {
	rec := &quizRecord{Name: q.Name, Questions: make([]questionRecord, len(q.Questions))}
	for i, question := range q.Questions {
		rec.Questions[i] = questionRecord{
			OrderNum:      i,
			Text:          question.Text,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
		}
	}
	return rec
}
