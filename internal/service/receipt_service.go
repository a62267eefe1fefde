package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"motofix/internal/dto"
	"motofix/internal/infra"
	"motofix/internal/model"
	"motofix/internal/repository"
	"motofix/internal/worker"

	"github.com/google/uuid"
)

// ReceiptService renders and serves sale receipts. It satisfies
// worker.ReceiptRenderer so the receipt job can use it directly.
type ReceiptService interface {
	RenderReceipt(ctx context.Context, saleID uuid.UUID) (*dto.ReceiptFile, error)
	// Receipt returns the stored receipt of a sale, rendering it first when
	// the background job has not produced it yet.
	Receipt(ctx context.Context, saleID uuid.UUID) (*dto.ReceiptFile, error)
}

type receiptService struct {
	sales       repository.SaleRepository
	products    repository.ProductRepository
	services    repository.ServiceRepository
	shopName    string
	storagePath string
}

func NewReceiptService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	services repository.ServiceRepository,
	shopName, storagePath string,
) ReceiptService {
	return &receiptService{
		sales:       sales,
		products:    products,
		services:    services,
		shopName:    shopName,
		storagePath: storagePath,
	}
}

var _ worker.ReceiptRenderer = (*receiptService)(nil)

func (s *receiptService) RenderReceipt(ctx context.Context, saleID uuid.UUID) (*dto.ReceiptFile, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrSaleNotFound, worker.ErrSaleNotFound)
		}
		return nil, err
	}
	names, err := resolveItemNames(ctx, s.products, s.services, sale.Items)
	if err != nil {
		return nil, err
	}

	r := infra.Receipt{
		ShopName:      s.shopName,
		InvoiceNo:     sale.InvoiceNo,
		CreatedAt:     sale.CreatedAt,
		PaymentMethod: sale.PaymentMethod,
		Discount:      sale.Discount,
		Total:         sale.TotalAmount,
	}
	if sale.Customer != nil {
		r.CustomerName = sale.Customer.Name
	}
	if sale.Mechanic != nil {
		r.MechanicName = sale.Mechanic.Name
	}
	for _, it := range sale.Items {
		r.Lines = append(r.Lines, infra.ReceiptLine{
			Name:     names[it.ItemID],
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: it.Subtotal,
		})
	}

	path, err := infra.RenderReceiptPDF(r, s.storagePath)
	if err != nil {
		return nil, err
	}
	return receiptFile(sale, path), nil
}

func (s *receiptService) Receipt(ctx context.Context, saleID uuid.UUID) (*dto.ReceiptFile, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, mapNotFound(err, ErrSaleNotFound)
	}
	path := filepath.Join(s.storagePath, infra.ReceiptFileName(sale.InvoiceNo))
	if _, err := os.Stat(path); err == nil {
		return receiptFile(sale, path), nil
	}
	return s.RenderReceipt(ctx, saleID)
}

func receiptFile(sale *model.Sale, path string) *dto.ReceiptFile {
	f := &dto.ReceiptFile{
		SaleID:    sale.ID.String(),
		InvoiceNo: sale.InvoiceNo,
		Path:      path,
		Total:     sale.TotalAmount,
	}
	if sale.Customer != nil {
		f.CustomerName = sale.Customer.Name
		f.CustomerEmail = sale.Customer.Email
	}
	return f
}
