package handler

import (
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"lucky-dice-bot/internal/service"
	"lucky-dice-bot/internal/shop"
)

// ShopHandler handles shop-related commands
type ShopHandler struct {
	shopService *service.ShopService
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// HandleShop handles the /shop command
func (h *ShopHandler) HandleShop(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	listings, p, err := h.shopService.Items(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "shop")
	}
	return c.Send(shop.FormatShopMessage(p.LuckPoints, p.UnlockedItems), shop.BuildShopPanel(listings))
}

// CallbackData returns the callback payload without telebot's "\f" marker.
func CallbackData(cb *tele.Callback) string {
	return strings.TrimPrefix(cb.Data, "\f")
}

// HandleShopCallback handles shop button callbacks
func (h *ShopHandler) HandleShopCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	if callback == nil || sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	data := CallbackData(callback)

	switch {
	case data == shop.CallbackShopRefresh, data == shop.CallbackShopCancel:
		return h.showPanel(c)

	case strings.HasPrefix(data, shop.CallbackShopItem):
		itemType := shop.ItemType(strings.TrimPrefix(data, shop.CallbackShopItem))
		item, ok := shop.GetItem(itemType)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: errorText(service.ErrItemNotFound)})
		}
		_, p, err := h.shopService.Items(ctx, sender.ID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load shop")
			return c.Respond(&tele.CallbackResponse{Text: errorText(err), ShowAlert: true})
		}
		owned := p.HasItem(string(item.Type))
		msg := shop.FormatItemDetail(item, p.LuckPoints, owned)
		if owned {
			return c.Edit(msg, shop.BuildShopPanel(nil))
		}
		return c.Edit(msg, shop.BuildConfirmPanel(itemType))

	case strings.HasPrefix(data, shop.CallbackShopBuy):
		itemType := shop.ItemType(strings.TrimPrefix(data, shop.CallbackShopBuy))
		if _, err := h.shopService.Purchase(ctx, sender.ID, itemType); err != nil {
			if isUnexpected(err) {
				log.Error().Err(err).Int64("user_id", sender.ID).Str("item", string(itemType)).Msg("Purchase failed")
			}
			return c.Respond(&tele.CallbackResponse{Text: errorText(err), ShowAlert: true})
		}

		item, _ := shop.GetItem(itemType)
		_ = c.Respond(&tele.CallbackResponse{Text: "✅ Unlocked " + item.Emoji + " " + item.Name})
		return h.showPanel(c)
	}

	return nil
}

// showPanel redraws the shop panel in place.
func (h *ShopHandler) showPanel(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	listings, p, err := h.shopService.Items(ctx, c.Sender().ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", c.Sender().ID).Msg("Failed to load shop")
		return c.Respond(&tele.CallbackResponse{Text: errorText(err), ShowAlert: true})
	}
	return c.Edit(shop.FormatShopMessage(p.LuckPoints, p.UnlockedItems), shop.BuildShopPanel(listings))
}
