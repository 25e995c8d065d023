package service

import (
	"context"
	"fmt"
	"time"

	"customer_service/internal/core/domain"
)

// Sample data installed on first run against an empty backend.
var (
	sampleCustomers = []domain.Customer{
		{ID: "KH001", FullName: "Nguyễn Văn An", PhoneNumber: "0901234567"},
		{ID: "KH002", FullName: "Trần Thị Bình", PhoneNumber: "0912345678"},
		{ID: "KH003", FullName: "Lê Văn Cường", PhoneNumber: "0923456789"},
	}

	sampleOrders = []domain.Order{
		{CustomerID: "KH001", Date: date(2024, 10, 25), Product: "Gạo ST25", Quantity: 2, UnitPrice: 2500, Total: 5000},
		{CustomerID: "KH001", Date: date(2024, 10, 26), Product: "Dầu ăn", Quantity: 1, UnitPrice: 4500, Total: 4500},
		{CustomerID: "KH001", Date: date(2024, 10, 28), Product: "Đường trắng", Quantity: 3, UnitPrice: 1800, Total: 5400},
		{CustomerID: "KH002", Date: date(2024, 10, 24), Product: "Mì tôm", Quantity: 5, UnitPrice: 450, Total: 2250},
		{CustomerID: "KH002", Date: date(2024, 10, 27), Product: "Nước mắm", Quantity: 1, UnitPrice: 3500, Total: 3500},
		{CustomerID: "KH003", Date: date(2024, 10, 23), Product: "Café G7", Quantity: 2, UnitPrice: 2800, Total: 5600},
	}
)

// seedSampleData installs the fixtures. Initialize only calls it when the
// backend reported zero customers, so reseeding cannot happen.
func (s *CustomerStore) seedSampleData(ctx context.Context) error {
	s.logger.Info("empty backend, installing sample data")

	for _, c := range sampleCustomers {
		if _, err := s.backend.InsertCustomer(ctx, c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}
	for _, o := range sampleOrders {
		if _, err := s.backend.InsertOrder(ctx, o); err != nil {
			return fmt.Errorf("seed order for %s: %w", o.CustomerID, err)
		}
	}
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
