package repository

import (
	bookingRepo "maravi/database/repository/booking"
	catalogRepo "maravi/database/repository/catalog"
	inventoryRepo "maravi/database/repository/inventory"
	ledgerRepo "maravi/database/repository/ledger"
	orderRepo "maravi/database/repository/order"
	sessionRepo "maravi/database/repository/paymentsession"
)

// Re-export the repository interfaces and constructors.
type CatalogRepository = catalogRepo.CatalogRepository

var NewMongoCatalogRepo = catalogRepo.NewMongoCatalogRepo

type OrderRepository = orderRepo.OrderRepository

var NewMongoOrderRepo = orderRepo.NewMongoOrderRepo

type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

type InventoryRepository = inventoryRepo.InventoryRepository

var NewMongoInventoryRepo = inventoryRepo.NewMongoInventoryRepo

type LedgerRepository = ledgerRepo.LedgerRepository

var NewMongoLedgerRepo = ledgerRepo.NewMongoLedgerRepo

type SessionRepository = sessionRepo.SessionRepository

var NewMongoSessionRepo = sessionRepo.NewMongoSessionRepo
