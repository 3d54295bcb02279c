package application

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bv-connector/internal/domain"
	"bv-connector/internal/ports"

	"github.com/rs/zerolog"
)

// errNotShipped marks a ship-triggered order that has no shipments yet.
// Such orders are skipped without being flagged so they are retried once a
// shipment exists.
var errNotShipped = errors.New("order has no shipments")

// AssembleStats reports how an assembly pass went.
type AssembleStats struct {
	Written int
	Skipped int
}

// FeedAssembler turns eligible orders into feed interactions and durably
// marks each order sent immediately after its XML is emitted. A mid-run
// failure leaves earlier orders flagged and later ones untouched.
type FeedAssembler struct {
	orders  ports.OrderRepository
	catalog ports.ProductCatalog
	config  ports.FeedConfigRepository
	logger  zerolog.Logger
}

// NewFeedAssembler creates a new feed assembler.
func NewFeedAssembler(
	orders ports.OrderRepository,
	catalog ports.ProductCatalog,
	config ports.FeedConfigRepository,
	logger zerolog.Logger,
) *FeedAssembler {
	return &FeedAssembler{
		orders:  orders,
		catalog: catalog,
		config:  config,
		logger:  logger,
	}
}

// Assemble writes one interaction per order through w, in order. Each
// interaction is fully resolved before any of its XML is written, so an
// order whose data cannot be resolved is skipped (and left unflagged)
// without corrupting the document. A writer or flag-persist failure aborts
// the unit at that point.
func (a *FeedAssembler) Assemble(
	ctx context.Context,
	orders []*domain.Order,
	cfg *domain.FeedConfig,
	w ports.FeedWriter,
) (AssembleStats, error) {
	var stats AssembleStats

	// Locale is scoped to each order's own store, not the unit's default
	// store. Cache lookups for the duration of the pass.
	locales := make(map[int64]string)

	for _, order := range orders {
		interaction, err := a.buildInteraction(ctx, order, cfg, locales)
		if err != nil {
			if errors.Is(err, domain.ErrDataAccess) || errors.Is(err, domain.ErrConfiguration) {
				return stats, err
			}
			a.logger.Warn().
				Err(err).
				Str("order", order.IncrementID).
				Msg("Skipping order, interaction could not be resolved")
			stats.Skipped++
			continue
		}

		if err := writeInteraction(w, interaction); err != nil {
			return stats, fmt.Errorf("%w: write interaction for order %s: %v", domain.ErrSerialization, order.IncrementID, err)
		}

		// Flag immediately, not batched: order N's write must land before
		// order N+1 is processed to bound resend duplication on crash.
		if err := a.orders.MarkSent(ctx, order.ID); err != nil {
			return stats, fmt.Errorf("%w: mark order %s sent: %v", domain.ErrDataAccess, order.IncrementID, err)
		}
		stats.Written++
	}

	return stats, nil
}

func (a *FeedAssembler) buildInteraction(
	ctx context.Context,
	order *domain.Order,
	cfg *domain.FeedConfig,
	locales map[int64]string,
) (*domain.Interaction, error) {
	txDate, err := transactionDate(order, cfg.TriggeringEvent)
	if err != nil {
		return nil, err
	}

	locale, ok := locales[order.StoreID]
	if !ok {
		storeCfg, err := a.config.ForStore(ctx, order.StoreID)
		if err != nil {
			return nil, fmt.Errorf("%w: locale for store %d: %v", domain.ErrConfiguration, order.StoreID, err)
		}
		if storeCfg != nil {
			locale = storeCfg.Locale
		}
		locales[order.StoreID] = locale
	}

	products, err := a.resolveProducts(ctx, order, cfg)
	if err != nil {
		return nil, err
	}

	return &domain.Interaction{
		TransactionDate: txDate,
		EmailAddress:    order.CustomerEmail,
		Locale:          locale,
		UserName:        order.CustomerFirstname,
		UserID:          userID(order),
		Products:        products,
	}, nil
}

// resolveProducts applies the families rules and the parent price/image
// resolution for every included line item.
func (a *FeedAssembler) resolveProducts(ctx context.Context, order *domain.Order, cfg *domain.FeedConfig) ([]domain.ProductEntry, error) {
	var items []domain.LineItem
	if cfg.Families {
		items = order.Items
	} else {
		items = order.VisibleItems()
	}

	entries := make([]domain.ProductEntry, 0, len(items))
	for _, item := range items {
		// Family parents carry no purchase of their own; their children
		// are enumerated instead.
		if cfg.Families && item.ProductType == domain.ProductTypeConfigurable {
			continue
		}

		product, err := a.catalog.GetProduct(ctx, item.ProductID, order.StoreID)
		if err != nil {
			return nil, fmt.Errorf("%w: load product %s: %v", domain.ErrSerialization, item.ProductID, err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: product %s no longer exists", domain.ErrSerialization, item.ProductID)
		}

		price := item.OriginalPrice
		imageURL := product.ImageURL

		if parent := order.ParentOf(item); parent != nil {
			// Variants never carry their own sale price.
			price = parent.OriginalPrice

			if cfg.Families && !product.HasImage() {
				parentProduct, err := a.catalog.GetProduct(ctx, parent.ProductID, order.StoreID)
				if err != nil {
					return nil, fmt.Errorf("%w: load parent product %s: %v", domain.ErrSerialization, parent.ProductID, err)
				}
				if parentProduct != nil {
					imageURL = parentProduct.ImageURL
				}
			}
		}

		entries = append(entries, domain.ProductEntry{
			ExternalID: product.ExternalID,
			Name:       product.Name,
			ImageURL:   imageURL,
			Price:      strconv.FormatFloat(price, 'f', 2, 64),
		})
	}
	return entries, nil
}

// transactionDate resolves the triggering-event timestamp. Ship-triggered
// orders without a shipment yet are reported as not shipped rather than
// producing an epoch-zero date.
func transactionDate(order *domain.Order, trigger domain.TriggeringEvent) (time.Time, error) {
	if trigger != domain.TriggerShip {
		return order.CreatedAt, nil
	}
	latest := order.LatestShipmentAt()
	if latest.IsZero() {
		return time.Time{}, fmt.Errorf("%w: order %s", errNotShipped, order.IncrementID)
	}
	return latest, nil
}

// userID is the customer id when present; guests get a stable hash of their
// email so the same email always maps to the same id across feeds.
func userID(order *domain.Order) string {
	if order.CustomerID != "" {
		return order.CustomerID
	}
	sum := md5.Sum([]byte(order.CustomerEmail))
	return hex.EncodeToString(sum[:])
}

func writeInteraction(w ports.FeedWriter, in *domain.Interaction) error {
	if err := w.StartElement("Interaction"); err != nil {
		return err
	}
	if err := w.WriteElement("TransactionDate", in.TransactionDate.Format(time.RFC3339)); err != nil {
		return err
	}
	if err := w.WriteElement("EmailAddress", in.EmailAddress); err != nil {
		return err
	}
	if err := w.WriteElement("Locale", in.Locale); err != nil {
		return err
	}
	if err := w.WriteElement("UserName", in.UserName); err != nil {
		return err
	}
	if err := w.WriteElement("UserID", in.UserID); err != nil {
		return err
	}

	if err := w.StartElement("Products"); err != nil {
		return err
	}
	for _, p := range in.Products {
		if err := w.StartElement("Product"); err != nil {
			return err
		}
		if err := w.WriteElement("ExternalId", p.ExternalID); err != nil {
			return err
		}
		if err := w.WriteElement("Name", p.Name); err != nil {
			return err
		}
		if err := w.WriteElement("ImageUrl", p.ImageURL); err != nil {
			return err
		}
		if err := w.WriteElement("Price", p.Price); err != nil {
			return err
		}
		if err := w.EndElement(); err != nil { // Product
			return err
		}
	}
	if err := w.EndElement(); err != nil { // Products
		return err
	}

	return w.EndElement() // Interaction
}
