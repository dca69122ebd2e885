// Package i18n holds the user-facing alert texts in Spanish and English.
package i18n

import (
	"fmt"

	"ccp/internal/domain"
)

type Key string

const (
	CartEmpty          Key = "cart.empty"
	NotLoggedIn        Key = "auth.not_logged_in"
	NoClientSelected   Key = "checkout.no_client"
	AddressEmpty       Key = "checkout.address_empty"
	AddressStreet      Key = "address.street"
	AddressNumber      Key = "address.number"
	AddressCity        Key = "address.city"
	OrderCreated       Key = "order.created"
	OrderFailed        Key = "order.failed"
	OrderInProgress    Key = "order.in_progress"
	LoginFailed        Key = "auth.login_failed"
	ProfileUnavailable Key = "auth.profile_unavailable"
	RegisterFailed     Key = "auth.register_failed"
	InvalidRange       Key = "filter.invalid_range"
	InvalidDateRange   Key = "filter.invalid_date_range"
	FetchFailed        Key = "fetch.failed"
	TitleError         Key = "title.error"
	TitleSuccess       Key = "title.success"
)

var catalog = map[domain.Language]map[Key]string{
	domain.LangES: {
		CartEmpty:          "El carrito está vacío. Agrega productos antes de realizar el pedido.",
		NotLoggedIn:        "Debes iniciar sesión para realizar un pedido.",
		NoClientSelected:   "Selecciona un cliente antes de realizar el pedido.",
		AddressEmpty:       "Ingresa la dirección de entrega.",
		AddressStreet:      "La dirección debe incluir el tipo de vía y su número (ej. Calle 80).",
		AddressNumber:      "La dirección debe incluir el número de la casa precedido de # (ej. #12-34).",
		AddressCity:        "La dirección debe terminar con un punto seguido de la ciudad (ej. . Bogotá).",
		OrderCreated:       "Pedido %s creado con éxito.",
		OrderFailed:        "Error al enviar el pedido: %s",
		OrderInProgress:    "El pedido se está enviando, espera un momento.",
		LoginFailed:        "Error al iniciar sesión: %s",
		ProfileUnavailable: "Autenticado, pero no fue posible obtener el perfil: %s",
		RegisterFailed:     "Error al registrarse: %s",
		InvalidRange:       "El valor mínimo no puede ser mayor que el máximo.",
		InvalidDateRange:   "La fecha inicial no puede ser posterior a la final.",
		FetchFailed:        "No fue posible cargar los datos: %s",
		TitleError:         "Error",
		TitleSuccess:       "Éxito",
	},
	domain.LangEN: {
		CartEmpty:          "Your cart is empty. Add products before placing the order.",
		NotLoggedIn:        "You must log in to place an order.",
		NoClientSelected:   "Select a client before placing the order.",
		AddressEmpty:       "Enter the delivery address.",
		AddressStreet:      "The address must include the street type and number (e.g. Calle 80).",
		AddressNumber:      "The address must include the house number preceded by # (e.g. #12-34).",
		AddressCity:        "The address must end with a period followed by the city (e.g. . Bogotá).",
		OrderCreated:       "Order %s created successfully.",
		OrderFailed:        "Error sending the order: %s",
		OrderInProgress:    "The order is being sent, please wait.",
		LoginFailed:        "Login failed: %s",
		ProfileUnavailable: "Authenticated, but the profile could not be loaded: %s",
		RegisterFailed:     "Registration failed: %s",
		InvalidRange:       "The minimum cannot be greater than the maximum.",
		InvalidDateRange:   "The start date cannot be after the end date.",
		FetchFailed:        "Could not load data: %s",
		TitleError:         "Error",
		TitleSuccess:       "Success",
	},
}

// T formats the message for key in lang, falling back to Spanish.
func T(lang domain.Language, key Key, args ...any) string {
	msgs, ok := catalog[lang]
	if !ok {
		msgs = catalog[domain.LangES]
	}
	tmpl, ok := msgs[key]
	if !ok {
		return string(key)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
