package mock

import (
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/velovis/velovis/api"
)

func (s *Service) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	products := slices.Clone(s.products)
	s.mux.Unlock()
	writeJSON(w, http.StatusOK, products)
}

func (s *Service) product(id string) *api.Product {
	for _, product := range s.products {
		if product.ID == id {
			return product
		}
	}
	return nil
}

// AddProduct adds a product to the catalogue
func (s *Service) AddProduct(product *api.Product) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	s.products = append(s.products, product)
}

func (s *Service) listCartItems(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mux.Lock()
	items := slices.Clone(s.carts[acct.Profile.ID])
	s.mux.Unlock()
	if items == nil {
		items = []*api.CartItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// addCartItem merges quantities of an already carted product
func (s *Service) addCartItem(w http.ResponseWriter, r *http.Request, acct *account) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be a positive number")
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	product := s.product(req.ProductID)
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	items := s.carts[acct.Profile.ID]
	for _, item := range items {
		if item.Product.ID != product.ID {
			continue
		}
		if item.Quantity+req.Quantity > product.StockQuantity {
			writeError(w, http.StatusBadRequest, "not enough stock")
			return
		}
		item.Quantity += req.Quantity
		writeJSON(w, http.StatusCreated, item)
		return
	}
	if req.Quantity > product.StockQuantity {
		writeError(w, http.StatusBadRequest, "not enough stock")
		return
	}
	item := &api.CartItem{
		ID:       uuid.NewString(),
		Quantity: req.Quantity,
		Product: api.CartProduct{
			ID:              product.ID,
			Name:            product.Name,
			Price:           product.Price,
			PrimaryPhotoURL: product.PrimaryPhotoURL,
			StockQuantity:   product.StockQuantity,
		},
	}
	s.carts[acct.Profile.ID] = append(items, item)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Service) updateCartItem(w http.ResponseWriter, r *http.Request, acct *account) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	id := r.PathValue("id")
	for _, item := range s.carts[acct.Profile.ID] {
		if item.ID != id {
			continue
		}
		if req.Quantity < 1 || req.Quantity > item.Product.StockQuantity {
			writeError(w, http.StatusBadRequest, "invalid quantity")
			return
		}
		item.Quantity = req.Quantity
		writeJSON(w, http.StatusOK, item)
		return
	}
	writeError(w, http.StatusNotFound, "cart item not found")
}

func (s *Service) removeCartItem(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mux.Lock()
	defer s.mux.Unlock()
	id := r.PathValue("id")
	items := s.carts[acct.Profile.ID]
	index := slices.IndexFunc(items, func(item *api.CartItem) bool { return item.ID == id })
	if index == -1 {
		writeError(w, http.StatusNotFound, "cart item not found")
		return
	}
	s.carts[acct.Profile.ID] = slices.Delete(items, index, index+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) listOrders(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mux.Lock()
	orders := slices.Clone(s.orders[acct.Profile.ID])
	s.mux.Unlock()
	if orders == nil {
		orders = []*api.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// createOrder turns the cart into a pending order and empties it
func (s *Service) createOrder(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mux.Lock()
	defer s.mux.Unlock()
	items := s.carts[acct.Profile.ID]
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	order := &api.Order{ID: uuid.NewString(), Status: api.OrderPending, CreatedAt: time.Now().UTC()}
	for _, item := range items {
		order.TotalPrice += item.Subtotal()
		if product := s.product(item.Product.ID); product != nil {
			product.StockQuantity -= item.Quantity
		}
	}
	delete(s.carts, acct.Profile.ID)
	s.orders[acct.Profile.ID] = append(s.orders[acct.Profile.ID], order)
	writeJSON(w, http.StatusCreated, order)
}

func (s *Service) listRoles(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mux.Lock()
	roles := slices.Clone(s.roles)
	s.mux.Unlock()
	writeJSON(w, http.StatusOK, roles)
}

func (s *Service) listPermissions(w http.ResponseWriter, r *http.Request, acct *account) {
	writeJSON(w, http.StatusOK, adminPermissions())
}

func (s *Service) createRole(w http.ResponseWriter, r *http.Request, acct *account) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name should not be empty")
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if slices.ContainsFunc(s.roles, func(role *api.Role) bool { return role.Name == req.Name }) {
		writeError(w, http.StatusConflict, "role already exists")
		return
	}
	role := &api.Role{ID: uuid.NewString(), Name: req.Name, Permissions: []api.RolePermission{}}
	s.roles = append(s.roles, role)
	writeJSON(w, http.StatusCreated, role)
}

func (s *Service) deleteRole(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mux.Lock()
	defer s.mux.Unlock()
	id := r.PathValue("id")
	index := slices.IndexFunc(s.roles, func(role *api.Role) bool { return role.ID == id })
	if index == -1 {
		writeError(w, http.StatusNotFound, "role not found")
		return
	}
	s.roles = slices.Delete(s.roles, index, index+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) listUsers(w http.ResponseWriter, r *http.Request, acct *account) {
	users := []*api.User{}
	s.accounts.Range(func(_ string, candidate *account) bool {
		user := &api.User{
			ID:       candidate.Profile.ID,
			Username: candidate.Profile.Username,
			FullName: candidate.Profile.FullName,
			Email:    candidate.Profile.Email,
		}
		for _, name := range candidate.Profile.Roles {
			user.Roles = append(user.Roles, api.UserRole{Role: api.Role{Name: name}})
		}
		users = append(users, user)
		return true
	})
	slices.SortFunc(users, func(a, b *api.User) int {
		switch {
		case a.Username < b.Username:
			return -1
		case a.Username > b.Username:
			return 1
		}
		return 0
	})
	writeJSON(w, http.StatusOK, users)
}

func (s *Service) deleteUser(w http.ResponseWriter, r *http.Request, acct *account) {
	id := r.PathValue("id")
	if id == acct.Profile.ID {
		writeError(w, http.StatusBadRequest, "cannot delete the signed in user")
		return
	}
	var username string
	s.accounts.Range(func(key string, candidate *account) bool {
		if candidate.Profile.ID == id {
			username = key
			return false
		}
		return true
	})
	if username == "" {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	s.accounts.Delete(username)
	w.WriteHeader(http.StatusNoContent)
}
