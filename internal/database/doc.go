// Package database provides the data access layer for the application.
//
// database.go owns the connection and migrations; domain operations live in
// sub-packages, each exposing a Repository over the shared *gorm.DB:
//
//	db, err := database.NewDatabase("./bookshelf.db")
//	repo := books.NewRepository(db.DB)
//	book, err := repo.GetBookByID(123)
package database
