package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/forgebyte/storefront/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

// OrderService owns the order state machine: Created -> Paid -> Shipped.
// Transitions are monotonic; nothing ever moves an order back.
type OrderService struct {
	DB *gorm.DB
}

func (s *OrderService) Create(ctx context.Context, email, product string, price float64) (*models.Order, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email required", ErrValidation)
	}
	if product == "" {
		return nil, fmt.Errorf("%w: product required", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	order := models.Order{
		Email:     email,
		Product:   product,
		Price:     price,
		Paid:      false,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.DB.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

// ConfirmPayment transitions an order to Paid. The ledger insert and the
// order update run in one transaction so a crash cannot leave a payment
// without a paid order or the other way around. Replaying the same
// transaction id is a no-op; a different id against a paid order is
// rejected, the first ledger entry wins.
func (s *OrderService) ConfirmPayment(ctx context.Context, id uint, transactionID string) (*models.Order, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transactionId required", ErrValidation)
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, id)
			}
			return err
		}

		if order.Paid {
			if order.TransactionID == transactionID {
				return nil
			}
			return fmt.Errorf("%w: order already paid with transaction %s", ErrConflict, order.TransactionID)
		}

		entry := models.Payment{
			TransactionID: transactionID,
			OrderID:       order.ID,
			Amount:        order.Price,
			CreatedAt:     time.Now().Unix(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		order.Paid = true
		order.Status = models.OrderStatusPending
		order.TransactionID = transactionID
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkShipped requires a paid order: status "shipt" always implies
// paid=true.
func (s *OrderService) MarkShipped(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !order.Paid {
		return nil, fmt.Errorf("%w: order %d is not paid", ErrConflict, id)
	}

	order.Status = models.OrderStatusShipped
	if err := s.DB.WithContext(ctx).Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email required", ErrValidation)
	}

	var orders []models.Order
	if err := s.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return err
	}
	return s.DB.WithContext(ctx).Delete(&order).Error
}
