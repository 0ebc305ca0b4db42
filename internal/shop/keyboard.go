package shop

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// Callback data prefixes
const (
	CallbackShopItem    = "shop_item:"   // shop_item:dice_style_gold
	CallbackShopBuy     = "shop_buy:"    // shop_buy:dice_style_gold
	CallbackShopCancel  = "shop_cancel"  // shop_cancel
	CallbackShopRefresh = "shop_refresh" // shop_refresh
)

// Listing is an item with the player's ownership, for display.
type Listing struct {
	ItemConfig
	Unlocked   bool
	Affordable bool
}

// BuildShopPanel creates the shop panel with one button per item, two per row.
func BuildShopPanel(listings []Listing) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	var currentRow []tele.Btn
	for i, l := range listings {
		label := fmt.Sprintf("%s %s (%d🍀)", l.Emoji, l.Name, l.Price)
		if l.Unlocked {
			label = fmt.Sprintf("%s %s ✅", l.Emoji, l.Name)
		}
		currentRow = append(currentRow, markup.Data(label, CallbackShopItem+string(l.Type)))

		if len(currentRow) == 2 || i == len(listings)-1 {
			rows = append(rows, markup.Row(currentRow...))
			currentRow = nil
		}
	}

	rows = append(rows, markup.Row(markup.Data("🔄 Refresh", CallbackShopRefresh)))

	markup.Inline(rows...)
	return markup
}

// BuildConfirmPanel creates the purchase confirmation panel
func BuildConfirmPanel(itemType ItemType) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	buyBtn := markup.Data("✅ Buy", CallbackShopBuy+string(itemType))
	cancelBtn := markup.Data("❌ Cancel", CallbackShopCancel)

	markup.Inline(markup.Row(buyBtn, cancelBtn))
	return markup
}

// FormatShopMessage creates the shop welcome message
func FormatShopMessage(balance int64, unlocked []string) string {
	var b strings.Builder
	b.WriteString("🏪 Lucky Shop\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "🍀 Luck points: %d\n", balance)
	fmt.Fprintf(&b, "🎲 Dice style: %s\n", ActiveDiceStyle(unlocked))
	b.WriteString("━━━━━━━━━━━━━━━\n")
	b.WriteString("Tap an item to see the details:")
	return b.String()
}

// FormatItemDetail creates the item detail message
func FormatItemDetail(item ItemConfig, balance int64, unlocked bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", item.Emoji, item.Name)
	b.WriteString("━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "🍀 Price: %d luck points\n", item.Price)
	fmt.Fprintf(&b, "📝 %s\n", item.Description)
	b.WriteString("━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "🍀 Balance: %d\n", balance)

	switch {
	case unlocked:
		b.WriteString("✅ Already unlocked")
	case balance < item.Price:
		b.WriteString("❌ Not enough luck points!")
	default:
		b.WriteString("Buy this item?")
	}
	return b.String()
}
