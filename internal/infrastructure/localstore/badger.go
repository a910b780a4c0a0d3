package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
)

// TokenKey clave bajo la que se guarda el token de acceso.
const TokenKey = "inventarioToken"

// Verificar en tiempo de compilación que BadgerTokenStore implementa TokenStore.
var _ ports.TokenStore = (*BadgerTokenStore)(nil)

// BadgerTokenStore guarda el token en un KV local (badger). Es el único estado persistido del cliente.
type BadgerTokenStore struct {
	db *badger.DB
}

// Open abre (o crea) la base en dir. Con dir vacío usa modo en memoria.
func Open(dir string) (*BadgerTokenStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	// badger trae su propio logger; aquí solo interesa el token.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("localstore: abrir %q: %w", dir, err)
	}
	return &BadgerTokenStore{db: db}, nil
}

// Load devuelve el token guardado o "" si no hay ninguno.
func (s *BadgerTokenStore) Load(_ context.Context) (string, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(TokenKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if err != nil {
		return "", fmt.Errorf("localstore: leer token: %w", err)
	}
	return token, nil
}

// Save reemplaza el token guardado.
func (s *BadgerTokenStore) Save(_ context.Context, token string) error {
	if token == "" {
		return s.Clear(context.Background())
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(TokenKey), []byte(token))
	})
	if err != nil {
		return fmt.Errorf("localstore: guardar token: %w", err)
	}
	return nil
}

// Clear elimina el token.
func (s *BadgerTokenStore) Clear(_ context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(TokenKey))
	})
	if err != nil {
		return fmt.Errorf("localstore: borrar token: %w", err)
	}
	return nil
}

// Close cierra la base.
func (s *BadgerTokenStore) Close() error {
	return s.db.Close()
}
