package cart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ozhegovsv/storefront/internal/models"
)

// Store loads and saves carts against the session table. Handlers load at
// the start of a request and save after mutating; nothing holds a cart
// across requests.
type Store struct {
	DB *gorm.DB
}

// Load returns the cart for session sid, creating the session row lazily
// on first access.
func (s *Store) Load(sid string) (*Cart, error) {
	var sess models.Session
	err := s.DB.Where("id = ?", sid).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess = models.Session{ID: sid}
		if err := s.DB.Create(&sess).Error; err != nil {
			return nil, fmt.Errorf("create session %s: %w", sid, err)
		}
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sid, err)
	}

	c, err := Decode(sess.Cart)
	if err != nil {
		return nil, fmt.Errorf("decode cart for session %s: %w", sid, err)
	}
	return c, nil
}

func (s *Store) Save(sid string, c *Cart) error {
	return s.SaveTx(s.DB, sid, c)
}

// SaveTx writes the cart inside an existing transaction, so checkout can
// clear the cart atomically with the order insert.
func (s *Store) SaveTx(tx *gorm.DB, sid string, c *Cart) error {
	data, err := c.Encode()
	if err != nil {
		return fmt.Errorf("encode cart for session %s: %w", sid, err)
	}
	if err := tx.Model(&models.Session{}).Where("id = ?", sid).Update("cart", data).Error; err != nil {
		return fmt.Errorf("save cart for session %s: %w", sid, err)
	}
	return nil
}

// AttachUser binds an anonymous session (and its cart) to the user who
// just authenticated.
func (s *Store) AttachUser(sid string, userID uint) error {
	if sid == "" {
		return nil
	}
	return s.DB.Model(&models.Session{}).Where("id = ?", sid).Update("user_id", userID).Error
}
