// Package shop provides the catalog of unlockable cosmetics.
package shop

import "slices"

// ItemType identifies a shop item.
type ItemType string

// Item types
const (
	ItemDiceGold       ItemType = "dice_style_gold"
	ItemDiceNeon       ItemType = "dice_style_neon"
	ItemDiceCrystal    ItemType = "dice_style_crystal"
	ItemBgForest       ItemType = "background_forest"
	ItemBgGalaxy       ItemType = "background_galaxy"
	ItemEffectFirework ItemType = "effect_fireworks"
)

// ItemCategory groups items by what they change.
type ItemCategory string

const (
	CategoryDiceStyle  ItemCategory = "dice_style"
	CategoryBackground ItemCategory = "background"
	CategoryEffect     ItemCategory = "effect"
)

// ItemConfig holds the configuration for a shop item
type ItemConfig struct {
	Type        ItemType
	Name        string
	Emoji       string
	Price       int64 // luck points
	Description string
	Category    ItemCategory
}

// ShopItems contains all unlockable items. Unlocks are permanent, so
// every item can be bought at most once.
var ShopItems = map[ItemType]ItemConfig{
	ItemDiceGold: {
		Type:        ItemDiceGold,
		Name:        "Golden Dice",
		Emoji:       "🥇",
		Price:       100,
		Description: "Luxurious golden dice set with gems",
		Category:    CategoryDiceStyle,
	},
	ItemDiceNeon: {
		Type:        ItemDiceNeon,
		Name:        "Neon Dice",
		Emoji:       "💡",
		Price:       150,
		Description: "Bright neon dice that glow in the dark",
		Category:    CategoryDiceStyle,
	},
	ItemDiceCrystal: {
		Type:        ItemDiceCrystal,
		Name:        "Crystal Dice",
		Emoji:       "💎",
		Price:       200,
		Description: "Clear dice cut from pure crystal",
		Category:    CategoryDiceStyle,
	},
	ItemBgForest: {
		Type:        ItemBgForest,
		Name:        "Mystic Forest",
		Emoji:       "🌲",
		Price:       120,
		Description: "A dark and mysterious forest backdrop",
		Category:    CategoryBackground,
	},
	ItemBgGalaxy: {
		Type:        ItemBgGalaxy,
		Name:        "Cosmic Galaxy",
		Emoji:       "🌌",
		Price:       180,
		Description: "A mesmerizing deep space backdrop",
		Category:    CategoryBackground,
	},
	ItemEffectFirework: {
		Type:        ItemEffectFirework,
		Name:        "Lucky Fireworks",
		Emoji:       "🎆",
		Price:       90,
		Description: "Fireworks burst after a successful roll",
		Category:    CategoryEffect,
	},
}

// displayOrder is the order items are listed in.
var displayOrder = []ItemType{
	ItemDiceGold,
	ItemDiceNeon,
	ItemDiceCrystal,
	ItemBgForest,
	ItemBgGalaxy,
	ItemEffectFirework,
}

// dicePrecedence decides which owned dice style is active.
var dicePrecedence = []ItemType{ItemDiceGold, ItemDiceNeon, ItemDiceCrystal}

// GetAllItems returns all shop items in display order
func GetAllItems() []ItemConfig {
	items := make([]ItemConfig, 0, len(displayOrder))
	for _, itemType := range displayOrder {
		if item, ok := ShopItems[itemType]; ok {
			items = append(items, item)
		}
	}
	return items
}

// GetItem returns the item config for a given type
func GetItem(itemType ItemType) (ItemConfig, bool) {
	item, ok := ShopItems[itemType]
	return item, ok
}

// ActiveDiceStyle returns the dice style shown for a set of unlocked items,
// or "classic" if none is owned. Gold wins over neon, neon over crystal.
func ActiveDiceStyle(unlocked []string) string {
	for _, t := range dicePrecedence {
		if slices.Contains(unlocked, string(t)) {
			return string(t)
		}
	}
	return "classic"
}
