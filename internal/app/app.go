package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Allan-Sanchez/storefront-client/internal/api"
	"github.com/Allan-Sanchez/storefront-client/internal/events"
	"github.com/Allan-Sanchez/storefront-client/internal/logging"
	"github.com/Allan-Sanchez/storefront-client/internal/models"
	"github.com/Allan-Sanchez/storefront-client/internal/notify"
	"github.com/Allan-Sanchez/storefront-client/internal/store/cart"
	"github.com/Allan-Sanchez/storefront-client/internal/store/session"
)

// refreshWindow is how close to expiry the access token may get before an
// authorized command refreshes it first.
const refreshWindow = time.Minute

// App is the storefront command layer. UI surfaces read the stores and
// dispatch commands here; backend failures never reach the stores as errors,
// they become local rollbacks plus a notification.
type App struct {
	log *slog.Logger

	Cart    *cart.Store
	Session *session.Store
	Notify  *notify.Notifier

	Auth     *api.AuthClient
	Products *api.ProductsClient
	Orders   *api.OrdersClient

	producer *events.Producer

	mu            sync.Mutex
	creatingOrder bool
}

func New(
	log *slog.Logger,
	cartStore *cart.Store,
	sessionStore *session.Store,
	notifier *notify.Notifier,
	auth *api.AuthClient,
	products *api.ProductsClient,
	orders *api.OrdersClient,
	producer *events.Producer,
) *App {
	return &App{
		log:      log,
		Cart:     cartStore,
		Session:  sessionStore,
		Notify:   notifier,
		Auth:     auth,
		Products: products,
		Orders:   orders,
		producer: producer,
	}
}

// Login authenticates and replaces the session on success. A cancelled
// context abandons the result without touching the session.
// withLog scopes the app logger to the command's context so the transport
// layer can log retries against it.
func (a *App) withLog(ctx context.Context) context.Context {
	return logging.IntoContext(ctx, a.log)
}

func (a *App) Login(ctx context.Context, email, password string) error {
	ctx = a.withLog(ctx)
	a.Session.BeginLogin()

	resp, err := a.Auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if ctx.Err() != nil {
		a.Session.FailLogin()
		return ctx.Err()
	}
	if err != nil {
		a.Session.FailLogin()
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindError,
			Title:   "Error de autenticación",
			Message: userMessage(err, "Error al iniciar sesión. Verifique sus credenciales."),
		})
		return err
	}

	a.Session.CompleteLogin(resp)
	a.Notify.Show(notify.Alert{
		Kind:    notify.KindSuccess,
		Message: fmt.Sprintf("¡Bienvenido, %s!", resp.User.FirstName),
	})
	a.publish(events.TopicUser, fmt.Sprint(resp.User.ID), map[string]any{
		"type":   "user_logged_in",
		"userID": resp.User.ID,
	})
	return nil
}

// Register creates the account. It does not log the user in; the original
// flow sends them to the login form afterwards.
func (a *App) Register(ctx context.Context, req models.RegisterRequest) error {
	ctx = a.withLog(ctx)
	resp, err := a.Auth.Register(ctx, req)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindError,
			Title:   "Error al crear la cuenta",
			Message: userMessage(err, "Error al crear la cuenta. Intente nuevamente."),
		})
		return err
	}

	a.Notify.Show(notify.Alert{
		Kind:    notify.KindSuccess,
		Title:   "¡Cuenta creada exitosamente!",
		Message: fmt.Sprintf("Bienvenido, %s! por favor inicia sesión.", resp.User.FirstName),
	})
	a.publish(events.TopicUser, fmt.Sprint(resp.User.ID), map[string]any{
		"type":   "user_registered",
		"userID": resp.User.ID,
	})
	return nil
}

// Logout is confirm-gated: the session is only cleared after the user
// confirms. The backend call is best-effort, local state wins.
func (a *App) Logout() string {
	return a.Notify.ShowConfirm(
		"¿Estás seguro de que quieres cerrar sesión?",
		"Cerrar Sesión",
		func() {
			ctx, cancel := context.WithTimeout(a.withLog(context.Background()), 5*time.Second)
			defer cancel()
			if err := a.Auth.Logout(ctx); err != nil {
				a.log.Warn("backend logout failed", "error", err)
			}

			a.Session.Logout()
			a.Cart.Clear()
			a.Notify.Show(notify.Alert{
				Kind:    notify.KindInfo,
				Message: "Sesión cerrada correctamente",
			})
		},
	)
}

// UpdateProfile patches the profile fields and folds the server's answer
// into the session. Tokens are untouched.
func (a *App) UpdateProfile(ctx context.Context, firstName, lastName, email string) error {
	ctx = a.withLog(ctx)
	if err := a.refreshIfNeeded(ctx); err != nil {
		return err
	}

	user, err := a.Auth.UpdateProfile(ctx, map[string]any{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindError,
			Title:   "Error al actualizar perfil",
			Message: userMessage(err, "Error al actualizar el perfil"),
		})
		return err
	}

	a.Session.SetUser(user)
	a.Notify.Show(notify.Alert{
		Kind:    notify.KindSuccess,
		Message: "Perfil actualizado correctamente",
	})
	return nil
}

func (a *App) BrowseProducts(ctx context.Context, q api.ProductQuery) ([]models.Product, error) {
	ctx = a.withLog(ctx)
	products, err := a.Products.List(ctx, q)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindError,
			Message: userMessage(err, "Error al cargar los productos"),
		})
		return nil, err
	}
	return products, nil
}

func (a *App) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	ctx = a.withLog(ctx)
	product, err := a.Products.Get(ctx, id)
	if ctx.Err() != nil {
		return models.Product{}, ctx.Err()
	}
	if err != nil {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindError,
			Message: userMessage(err, "Error al cargar el producto"),
		})
		return models.Product{}, err
	}
	return product, nil
}

func (a *App) AddToCart(p models.Product) {
	a.Cart.AddProduct(p)
	a.Notify.Show(notify.Alert{
		Kind:    notify.KindSuccess,
		Message: fmt.Sprintf("%s agregado al carrito", p.Name),
	})
	a.publish(events.TopicCart, fmt.Sprint(p.ID), map[string]any{
		"type":      "add_cart_item",
		"productID": p.ID,
	})
}

func (a *App) RemoveFromCart(lineID string) {
	a.Cart.RemoveLine(lineID)
	a.publish(events.TopicCart, lineID, map[string]any{
		"type":   "remove_cart_item",
		"lineID": lineID,
	})
}

func (a *App) SetCartQuantity(lineID string, quantity int) {
	a.Cart.SetQuantity(lineID, quantity)
}

// ClearCart is confirm-gated, it only empties the cart after the user
// confirms the dialog.
func (a *App) ClearCart() string {
	return a.Notify.ShowConfirm(
		"¿Estás seguro de que quieres vaciar el carrito? Esta acción no se puede deshacer.",
		"Vaciar Carrito",
		func() {
			a.Cart.Clear()
			a.publish(events.TopicCart, "cart", map[string]any{"type": "cart_cleared"})
		},
	)
}

// Checkout submits the current cart as an order. While the request is in
// flight IsCreatingOrder reports true so the caller can disable the trigger;
// a second call in that window is rejected locally.
func (a *App) Checkout(ctx context.Context, notes, shippingAddress, paymentMethod string) (models.Order, error) {
	ctx = a.withLog(ctx)
	a.mu.Lock()
	if a.creatingOrder {
		a.mu.Unlock()
		return models.Order{}, errors.New("order creation already in progress")
	}
	a.creatingOrder = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.creatingOrder = false
		a.mu.Unlock()
	}()

	user := a.Session.User()
	if user == nil {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindWarning,
			Message: "Inicia sesión para completar la compra",
		})
		return models.Order{}, errors.New("not authenticated")
	}

	lines := a.Cart.Lines()
	if len(lines) == 0 {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindWarning,
			Message: "El carrito está vacío",
		})
		return models.Order{}, errors.New("cart is empty")
	}

	if err := a.refreshIfNeeded(ctx); err != nil {
		return models.Order{}, err
	}

	req := models.CreateOrderRequest{
		Items:           make([]models.OrderItemRequest, 0, len(lines)),
		Notes:           notes,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	}
	for _, line := range lines {
		req.Items = append(req.Items, models.OrderItemRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Product.PriceInCurrency,
		})
	}

	order, err := a.Orders.Create(ctx, req, user.ID, user.Email)
	if ctx.Err() != nil {
		return models.Order{}, ctx.Err()
	}
	if err != nil {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindError,
			Title:   "Error al crear la orden",
			Message: userMessage(err, "Error al crear la orden. Intente nuevamente."),
		})
		return models.Order{}, err
	}

	a.Cart.Clear()
	a.Notify.Show(notify.Alert{
		Kind:    notify.KindSuccess,
		Title:   "¡Orden creada!",
		Message: fmt.Sprintf("Orden %s creada correctamente", order.OrderNumber),
	})
	a.publish(events.TopicCart, fmt.Sprint(user.ID), map[string]any{
		"type":    "order_created",
		"userID":  user.ID,
		"orderID": order.ID,
	})
	return order, nil
}

func (a *App) IsCreatingOrder() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.creatingOrder
}

func (a *App) MyOrders(ctx context.Context, q api.OrderQuery) ([]models.Order, error) {
	ctx = a.withLog(ctx)
	if err := a.refreshIfNeeded(ctx); err != nil {
		return nil, err
	}

	orders, err := a.Orders.MyOrders(ctx, q)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindError,
			Message: userMessage(err, "Error al cargar las órdenes"),
		})
		return nil, err
	}
	return orders, nil
}

// refreshIfNeeded rotates the token pair when the access token is about to
// expire. A failed rotation clears the session, the user has to log in again.
func (a *App) refreshIfNeeded(ctx context.Context) error {
	if !a.Session.IsAuthenticated() || !a.Session.AccessTokenExpiresWithin(refreshWindow) {
		return nil
	}
	refreshToken := a.Session.RefreshToken()
	if refreshToken == "" {
		return nil
	}

	resp, err := a.Auth.Refresh(ctx, refreshToken)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		a.log.Warn("token refresh failed", "error", err)
		a.Session.Logout()
		a.Notify.Show(notify.Alert{
			Kind:    notify.KindWarning,
			Message: "Tu sesión expiró. Inicia sesión nuevamente.",
		})
		return err
	}

	a.Session.UpdateTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// userMessage extracts the server-provided message, falling back to the
// flow's generic text.
func userMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (a *App) publish(topic, key string, event map[string]any) {
	if a.producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.producer.Publish(ctx, topic, key, event); err != nil {
		a.log.Warn("event publish failed", "topic", topic, "error", err)
	}
}
