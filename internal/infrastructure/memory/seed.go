package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Seed catálogo y documentos iniciales para levantar la API sin PostgreSQL.
type Seed struct {
	Products []struct {
		ID         string          `json:"id"`
		BusinessID string          `json:"business_id"`
		SKU        string          `json:"sku"`
		Name       string          `json:"name"`
		Price      decimal.Decimal `json:"price"`
		Cost       decimal.Decimal `json:"cost"`
		BaseUnit   string          `json:"base_unit"`
		Units      []struct {
			Code       string          `json:"code"`
			FactorBase decimal.Decimal `json:"factor_base"`
		} `json:"units"`
	} `json:"products"`
	Documents []struct {
		ID             string             `json:"id"`
		BusinessID     string             `json:"business_id"`
		Kind           entity.AccountKind `json:"kind"`
		CounterpartyID string             `json:"counterparty_id"`
		TotalAmount    decimal.Decimal    `json:"total_amount"`
		IssueDate      *time.Time         `json:"issue_date"`
		Number         string             `json:"number"`
	} `json:"documents"`
}

// LoadSeedFile carga un archivo JSON con el formato de Seed.
func (s *Store) LoadSeedFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir seed: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(ctx, f)
}

// LoadSeed decodifica r y registra productos, presentaciones y documentos.
func (s *Store) LoadSeed(ctx context.Context, r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decodificar seed: %w", err)
	}
	products, docs := s.Products(), s.Documents()
	for _, p := range seed.Products {
		if err := products.Put(ctx, entity.Product{
			ID:         p.ID,
			BusinessID: p.BusinessID,
			SKU:        p.SKU,
			Name:       p.Name,
			Price:      p.Price,
			Cost:       p.Cost,
			BaseUnit:   p.BaseUnit,
		}); err != nil {
			return err
		}
		for _, u := range p.Units {
			if err := products.PutUnit(ctx, entity.UnitOfMeasure{ProductID: p.ID, Code: u.Code, FactorBase: u.FactorBase}); err != nil {
				return err
			}
		}
	}
	for _, d := range seed.Documents {
		if err := docs.Put(ctx, entity.SourceDocument{
			ID:             d.ID,
			BusinessID:     d.BusinessID,
			Kind:           d.Kind,
			CounterpartyID: d.CounterpartyID,
			TotalAmount:    d.TotalAmount,
			IssueDate:      d.IssueDate,
			Number:         d.Number,
		}); err != nil {
			return err
		}
	}
	return nil
}
