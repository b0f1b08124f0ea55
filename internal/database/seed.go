package database

import (
	"time"

	"mercado-backend/internal/models"

	"gorm.io/gorm"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.Local)
}

// SeedDemoData loads the demonstration dataset into an empty database.
func SeedDemoData(db *gorm.DB) error {
	suppliers := []models.Supplier{
		{Name: "Distribuidora Alimentos ABC", Contact: "João Silva", Phone: "(11) 98765-4321", Email: "joao.silva@alimentosabc.com", Address: "Av. Paulista, 1000, São Paulo - SP", CreatedAt: at(2023, 1, 10, 8, 30)},
		{Name: "Fornecedora Nacional de Grãos", Contact: "Maria Oliveira", Phone: "(11) 91234-5678", Email: "maria@fng.com.br", Address: "Rua Augusta, 500, São Paulo - SP", CreatedAt: at(2023, 1, 11, 9, 15)},
		{Name: "Indústria de Alimentos XYZ", Contact: "Carlos Santos", Phone: "(21) 99876-5432", Email: "carlos@alimentosxyz.com.br", Address: "Av. Brasil, 2000, Rio de Janeiro - RJ", CreatedAt: at(2023, 1, 12, 10, 45)},
	}

	products := []models.Product{
		{Name: "Arroz Integral", Description: "Arroz integral tipo 1, pacote de 1kg", Price: 7.99, StockQuantity: 50, SupplierID: 1, CreatedAt: at(2023, 1, 15, 10, 30)},
		{Name: "Feijão Carioca", Description: "Feijão carioca tipo 1, pacote de 1kg", Price: 8.49, StockQuantity: 45, SupplierID: 1, CreatedAt: at(2023, 1, 15, 10, 35)},
		{Name: "Açúcar Refinado", Description: "Açúcar refinado, pacote de 1kg", Price: 4.99, StockQuantity: 60, SupplierID: 2, CreatedAt: at(2023, 1, 16, 9, 20)},
		{Name: "Café Torrado", Description: "Café torrado e moído, pacote de 500g", Price: 12.99, StockQuantity: 30, SupplierID: 2, CreatedAt: at(2023, 1, 16, 9, 25)},
		{Name: "Óleo de Soja", Description: "Óleo de soja refinado, garrafa de 900ml", Price: 9.99, StockQuantity: 40, SupplierID: 3, CreatedAt: at(2023, 1, 17, 11, 10)},
	}

	clients := []models.Client{
		{Name: "Ana Silva", Phone: "(11) 98765-4321", Email: "ana.silva@email.com", Address: "Rua das Flores, 123, São Paulo - SP", CreatedAt: at(2023, 1, 15, 14, 30)},
		{Name: "Pedro Santos", Phone: "(11) 91234-5678", Email: "pedro.santos@email.com", Address: "Av. Paulista, 1500, São Paulo - SP", CreatedAt: at(2023, 1, 16, 10, 15)},
		{Name: "Mariana Oliveira", Phone: "(21) 99876-5432", Email: "mariana.oliveira@email.com", Address: "Rua Copacabana, 500, Rio de Janeiro - RJ", CreatedAt: at(2023, 1, 17, 16, 45)},
	}

	sales := []models.Sale{
		{
			ClientID: 1, SaleDate: at(2023, 7, 1, 10, 30), Total: 45.97,
			PaymentMethod: models.PaymentCard, CreatedAt: at(2023, 7, 1, 10, 30),
			Items: []models.SaleItem{
				{ProductID: 1, Quantity: 2, UnitPrice: 7.99, Subtotal: 15.98, CreatedAt: at(2023, 7, 1, 10, 30)},
				{ProductID: 2, Quantity: 3, UnitPrice: 8.49, Subtotal: 25.47, CreatedAt: at(2023, 7, 1, 10, 30)},
				{ProductID: 3, Quantity: 1, UnitPrice: 4.99, Subtotal: 4.99, CreatedAt: at(2023, 7, 1, 10, 30)},
			},
		},
		{
			ClientID: 2, SaleDate: at(2023, 7, 2, 14, 45), Total: 33.96,
			PaymentMethod: models.PaymentCash, CreatedAt: at(2023, 7, 2, 14, 45),
			Items: []models.SaleItem{
				{ProductID: 1, Quantity: 3, UnitPrice: 7.99, Subtotal: 23.97, CreatedAt: at(2023, 7, 2, 14, 45)},
				{ProductID: 3, Quantity: 2, UnitPrice: 4.99, Subtotal: 9.98, CreatedAt: at(2023, 7, 2, 14, 45)},
			},
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&suppliers).Error; err != nil {
			return err
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		if err := tx.Create(&clients).Error; err != nil {
			return err
		}
		return tx.Create(&sales).Error
	})
}
