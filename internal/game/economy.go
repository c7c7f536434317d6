package game

import (
	"fmt"

	"github.com/tomz197/skyraid/internal/game/config"
)

// Upgrade identifies a purchasable upgrade.
type Upgrade int

const (
	UpgradeMultiShot Upgrade = iota
	UpgradeMaxLives
	UpgradeBomb
)

// Upgrades lists every upgrade in shop order.
var Upgrades = []Upgrade{UpgradeMultiShot, UpgradeMaxLives, UpgradeBomb}

func (u Upgrade) String() string {
	switch u {
	case UpgradeMultiShot:
		return "multishot"
	case UpgradeMaxLives:
		return "maxlives"
	case UpgradeBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// ParseUpgrade maps an upgrade name back to its value.
func ParseUpgrade(s string) (Upgrade, error) {
	for _, u := range Upgrades {
		if u.String() == s {
			return u, nil
		}
	}
	return 0, fmt.Errorf("unknown upgrade %q", s)
}

// Economy holds the persistent currency and the purchased upgrade levels.
// Purchases either apply fully or not at all.
type Economy struct {
	SavedPoints    int  `msgpack:"points"`
	MultiShot      int  `msgpack:"multiShot"`
	MultiShotPrice int  `msgpack:"multiShotPrice"`
	MaxLives       int  `msgpack:"maxLives"`
	MaxLivesPrice  int  `msgpack:"maxLivesPrice"`
	Bomb           bool `msgpack:"bomb"`
}

// NewEconomy returns an economy with no upgrades bought.
func NewEconomy(savedPoints int) Economy {
	return Economy{
		SavedPoints:    max(savedPoints, 0),
		MultiShot:      1,
		MultiShotPrice: config.MultiShotStartPrice,
		MaxLives:       config.StartingLives,
		MaxLivesPrice:  config.MaxLivesStartPrice,
	}
}

// Deposit adds points to the saved currency. Negative amounts are ignored.
func (e *Economy) Deposit(points int) {
	if points > 0 {
		e.SavedPoints += points
	}
}

// Price returns the current price of u and whether it can still be bought
// at all (ignoring affordability).
func (e *Economy) Price(u Upgrade) (int, bool) {
	switch u {
	case UpgradeMultiShot:
		return e.MultiShotPrice, e.MultiShot < config.MaxMultiShot
	case UpgradeMaxLives:
		return e.MaxLivesPrice, e.MaxLives < config.MaxLivesCap
	case UpgradeBomb:
		return config.BombPrice, !e.Bomb
	default:
		return 0, false
	}
}

// Buy purchases u if available and affordable.
func (e *Economy) Buy(u Upgrade) bool {
	switch u {
	case UpgradeMultiShot:
		return e.BuyMultiShot()
	case UpgradeMaxLives:
		return e.BuyMaxLives()
	case UpgradeBomb:
		return e.BuyBomb()
	default:
		return false
	}
}

// BuyMultiShot adds one simultaneous bullet. The price doubles after each purchase.
func (e *Economy) BuyMultiShot() bool {
	if !e.spend(UpgradeMultiShot) {
		return false
	}
	e.MultiShot++
	e.MultiShotPrice *= config.MultiShotPriceScale
	return true
}

// BuyMaxLives raises the life cap by one. The price grows by half, floored.
func (e *Economy) BuyMaxLives() bool {
	if !e.spend(UpgradeMaxLives) {
		return false
	}
	e.MaxLives++
	e.MaxLivesPrice = int(float64(e.MaxLivesPrice) * config.MaxLivesPriceScale)
	return true
}

// BuyBomb buys a single-use bomb. Only one can be held.
func (e *Economy) BuyBomb() bool {
	if !e.spend(UpgradeBomb) {
		return false
	}
	e.Bomb = true
	return true
}

// spend deducts the price of u if it is available and affordable.
func (e *Economy) spend(u Upgrade) bool {
	price, ok := e.Price(u)
	if !ok || e.SavedPoints < price {
		return false
	}
	e.SavedPoints -= price
	return true
}
