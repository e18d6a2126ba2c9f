package chargen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chargen-backend/internal/models"

	"gorm.io/gorm"
)

// Filter: Prädikate für die Chargenauswahl, alle optional und UND-verknüpft.
// Nullwert = keine Einschränkung.
type Filter struct {
	ArtikelID        *uint                   `json:"artikelId"`
	LieferantID      *uint                   `json:"lieferantId"`
	Qualitaetsstatus models.Qualitaetsstatus `json:"qualitaetsstatus"`
	Lagerort         string                  `json:"lagerort"`
	VonDatum         *time.Time              `json:"vonDatum"`
	BisDatum         *time.Time              `json:"bisDatum"`
}

// Repository: Lesezugriff auf Chargen, Verfolgungskanten, Qualitäts-, Dokument-
// und Lieferdaten. Das Berichtswesen schreibt nie.
type Repository interface {
	FindChargen(ctx context.Context, f Filter) ([]models.Charge, error)
	GetCharge(ctx context.Context, id uint) (*models.Charge, error)

	// Kanten, in denen die Charge als Verbraucher steht (ihre Vorgänger)
	GetErzeugerEdges(ctx context.Context, verbraucherID uint) ([]models.ChargenVerfolgung, error)
	// Kanten, in denen die Charge als Erzeuger steht (ihre Nachfolger)
	GetVerbraucherEdges(ctx context.Context, erzeugerID uint) ([]models.ChargenVerfolgung, error)

	GetQualitaetstests(ctx context.Context, chargenIDs []uint) ([]models.Qualitaetstest, error)
	GetDokumente(ctx context.Context, chargenIDs []uint) ([]models.Dokument, error)
	GetLieferungen(ctx context.Context, chargeID uint) ([]models.Lieferung, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// wrapDBErr: übersetzt gorm-Fehler in die Fehlertaxonomie des Pakets
func wrapDBErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChargeNotFound
	}
	return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
}

func (r *GormRepository) FindChargen(ctx context.Context, f Filter) ([]models.Charge, error) {
	q := r.db.WithContext(ctx).Model(&models.Charge{}).Preload("Artikel").Preload("Lieferant")

	if f.ArtikelID != nil {
		q = q.Where("artikel_id = ?", *f.ArtikelID)
	}
	if f.LieferantID != nil {
		q = q.Where("lieferant_id = ?", *f.LieferantID)
	}
	if f.Qualitaetsstatus != "" {
		q = q.Where("qualitaetsstatus = ?", f.Qualitaetsstatus)
	}
	if f.Lagerort != "" {
		q = q.Where("lagerort = ?", f.Lagerort)
	}
	if f.VonDatum != nil {
		q = q.Where("eingangsdatum >= ?", *f.VonDatum)
	}
	if f.BisDatum != nil {
		q = q.Where("eingangsdatum <= ?", *f.BisDatum)
	}

	var chargen []models.Charge
	if err := q.Order("id ASC").Find(&chargen).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return chargen, nil
}

func (r *GormRepository) GetCharge(ctx context.Context, id uint) (*models.Charge, error) {
	var charge models.Charge
	if err := r.db.WithContext(ctx).Preload("Artikel").Preload("Lieferant").
		First(&charge, "id = ?", id).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return &charge, nil
}

func (r *GormRepository) GetErzeugerEdges(ctx context.Context, verbraucherID uint) ([]models.ChargenVerfolgung, error) {
	var edges []models.ChargenVerfolgung
	if err := r.db.WithContext(ctx).
		Where("verbraucher_charge_id = ?", verbraucherID).
		Order("id ASC").
		Find(&edges).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return edges, nil
}

func (r *GormRepository) GetVerbraucherEdges(ctx context.Context, erzeugerID uint) ([]models.ChargenVerfolgung, error) {
	var edges []models.ChargenVerfolgung
	if err := r.db.WithContext(ctx).
		Where("erzeuger_charge_id = ?", erzeugerID).
		Order("id ASC").
		Find(&edges).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return edges, nil
}

func (r *GormRepository) GetQualitaetstests(ctx context.Context, chargenIDs []uint) ([]models.Qualitaetstest, error) {
	if len(chargenIDs) == 0 {
		return nil, nil
	}
	var tests []models.Qualitaetstest
	if err := r.db.WithContext(ctx).
		Where("charge_id IN ?", chargenIDs).
		Order("charge_id ASC, pruefdatum ASC, id ASC").
		Find(&tests).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return tests, nil
}

func (r *GormRepository) GetDokumente(ctx context.Context, chargenIDs []uint) ([]models.Dokument, error) {
	if len(chargenIDs) == 0 {
		return nil, nil
	}
	var docs []models.Dokument
	if err := r.db.WithContext(ctx).
		Where("charge_id IN ?", chargenIDs).
		Order("charge_id ASC, datum ASC, id ASC").
		Find(&docs).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return docs, nil
}

func (r *GormRepository) GetLieferungen(ctx context.Context, chargeID uint) ([]models.Lieferung, error) {
	var lieferungen []models.Lieferung
	if err := r.db.WithContext(ctx).Preload("Kunde").
		Where("charge_id = ?", chargeID).
		Order("id ASC").
		Find(&lieferungen).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return lieferungen, nil
}
