package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/httpx"
	ord "github.com/MikeMC777/tienda-ecom/internal/order"
	"github.com/MikeMC777/tienda-ecom/internal/product"
	"github.com/MikeMC777/tienda-ecom/internal/review"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondErr(c *gin.Context, err error) {
	var verr *ord.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid input", Fields: verr.Fields})
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidSize), errors.Is(err, review.ErrTextTooLong):
		c.JSON(http.StatusBadRequest, errorBody{Error: errors.Cause(err).Error()})
	case errors.Is(err, ord.ErrForbidden), errors.Is(err, review.ErrForbidden):
		c.JSON(http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, ord.ErrInvalidTransition),
		errors.Is(err, ord.ErrWindowExpired),
		errors.Is(err, ord.ErrNothingToCheckout),
		errors.Is(err, cart.ErrUnavailable):
		c.JSON(http.StatusConflict, errorBody{Error: errors.Cause(err).Error()})
	case errors.Is(err, ord.ErrNotFound), errors.Is(err, product.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "not found"})
	default:
		log.WithError(err).WithField("rid", httpx.RID(c)).Error("[order] request failed")
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func requester(c *gin.Context) ord.Requester {
	id, _ := httpx.CurrentIdentity(c)
	return ord.Requester{UserID: id.UserID, Admin: id.Admin()}
}

func userID(c *gin.Context) string {
	id, _ := httpx.CurrentIdentity(c)
	return id.UserID
}

// pagination reads limit/offset with the same bounds the repositories apply.
func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

//
// ---------- CART ----------
//

// cartViewHandler
// @Summary Cart lines with totals
// @Tags    cart
// @Produce json
// @Success 200 {object} cart.View
// @Router  /cart [get]
func cartViewHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svc.View(c.Request.Context(), httpx.SessionKey(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// addCartItemHandler
// @Summary Add a product to the cart
// @Tags    cart
// @Accept  json
// @Param   body body cart.AddItemRequest true "line"
// @Success 201 {object} cart.Line
// @Router  /cart/items [post]
func addCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := cart.AddItemRequest{Quantity: 1}
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json"})
			return
		}
		l, err := svc.Add(c.Request.Context(), httpx.SessionKey(c), req.ProductID, req.Size, req.Quantity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, l)
	}
}

// updateCartItemsHandler
// @Summary Edit several line quantities
// @Tags    cart
// @Accept  json
// @Param   body body cart.UpdateQuantitiesRequest true "line id to quantity"
// @Success 200 {object} cart.View
// @Router  /cart/items [put]
func updateCartItemsHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.UpdateQuantitiesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json"})
			return
		}
		sk := httpx.SessionKey(c)
		if err := svc.UpdateQuantities(c.Request.Context(), sk, req.Quantities); err != nil {
			respondErr(c, err)
			return
		}
		v, err := svc.View(c.Request.Context(), sk)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// setCartItemHandler
// @Summary Set one line quantity; zero or less removes it
// @Tags    cart
// @Param   id   path string true "line id"
// @Param   body body cart.SetQuantityRequest true "quantity"
// @Success 200 {object} cart.View
// @Router  /cart/items/{id} [put]
func setCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json"})
			return
		}
		sk := httpx.SessionKey(c)
		if err := svc.SetQuantity(c.Request.Context(), sk, c.Param("id"), req.Quantity); err != nil {
			respondErr(c, err)
			return
		}
		v, err := svc.View(c.Request.Context(), sk)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// removeCartItemHandler
// @Summary Remove a line
// @Tags    cart
// @Param   id path string true "line id"
// @Success 204
// @Router  /cart/items/{id} [delete]
func removeCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), httpx.SessionKey(c), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

//
// ---------- CHECKOUT ----------
//

// buyNowHandler
// @Summary Check out a single product next
// @Tags    checkout
// @Param   product_id path string true "product id"
// @Success 204
// @Router  /buy-now/{product_id} [post]
func buyNowHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.SetBuyNow(c.Request.Context(), httpx.SessionKey(c), c.Param("product_id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// cancelBuyNowHandler
// @Summary Drop the buy-now product and check out the cart instead
// @Tags    checkout
// @Success 204
// @Router  /buy-now [delete]
func cancelBuyNowHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearBuyNow(c.Request.Context(), httpx.SessionKey(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// checkoutHandler
// @Summary Place an order from the buy-now product or the cart
// @Tags    checkout
// @Accept  json
// @Param   body body ord.CheckoutRequest true "contact and payment"
// @Success 201 {object} ord.Result
// @Failure 400 {object} errorBody
// @Failure 409 {object} errorBody
// @Router  /checkout [post]
func checkoutHandler(co *ord.Checkout) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json"})
			return
		}
		res, err := co.Place(c.Request.Context(), httpx.SessionKey(c), userID(c), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

//
// ---------- ORDERS ----------
//

// listOrdersHandler
// @Summary Orders of the caller, newest first
// @Tags    orders
// @Param   limit  query int false "page size"
// @Param   offset query int false "offset"
// @Success 200 {array} ord.Summary
// @Router  /orders [get]
func listOrdersHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		out, err := svc.ListOrders(c.Request.Context(), userID(c), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": out, "limit": limit, "offset": offset})
	}
}

// getOrderHandler
// @Summary Order with its items
// @Tags    orders
// @Param   id path string true "order id"
// @Success 200 {object} ord.Detail
// @Failure 403 {object} errorBody
// @Router  /orders/{id} [get]
func getOrderHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), c.Param("id"), requester(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

var customerActions = map[string]ord.Action{
	"cancel":   ord.ActionCancel,
	"return":   ord.ActionRequestReturn,
	"exchange": ord.ActionRequestExchange,
}

// customerActionHandler
// @Summary Cancel, return or exchange an order
// @Tags    orders
// @Param   id     path string true "order id"
// @Param   action path string true "cancel | return | exchange"
// @Param   body   body ord.Payload false "reason and replacement"
// @Success 200 {object} ord.Order
// @Failure 409 {object} errorBody
// @Router  /orders/{id}/{action} [post]
func customerActionHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		action, ok := customerActions[c.Param("action")]
		if !ok {
			c.JSON(http.StatusNotFound, errorBody{Error: "not found"})
			return
		}
		var p ord.Payload
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&p); err != nil {
				c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json"})
				return
			}
		}
		o, err := svc.Transition(c.Request.Context(), c.Param("id"), requester(c), action, p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// adminActionHandler
// @Summary Run a staff action on one order
// @Tags    admin
// @Param   id     path string true "order id"
// @Param   action path string true "mark_shipped | mark_completed | approve_return | reject_return | approve_exchange"
// @Success 200 {object} ord.Order
// @Router  /admin/orders/{id}/{action} [post]
func adminActionHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		action, ok := ord.ParseAdminAction(c.Param("action"))
		if !ok {
			c.JSON(http.StatusBadRequest, errorBody{Error: "unknown action"})
			return
		}
		o, err := svc.Transition(c.Request.Context(), c.Param("id"), requester(c), action, ord.Payload{})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// bulkActionHandler
// @Summary Run a staff action on many orders
// @Tags    admin
// @Accept  json
// @Param   body body ord.BulkActionRequest true "action and ids"
// @Success 200 {object} ord.BulkActionResponse
// @Router  /admin/orders/actions [post]
func bulkActionHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.BulkActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json"})
			return
		}
		action, ok := ord.ParseAdminAction(req.Action)
		if !ok {
			c.JSON(http.StatusBadRequest, errorBody{Error: "unknown action"})
			return
		}
		n, err := svc.BulkTransition(c.Request.Context(), req.IDs, action)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ord.BulkActionResponse{Transitioned: n})
	}
}

//
// ---------- REVIEWS ----------
//

// listCommentsHandler
// @Summary Comments of a product with its rating summary
// @Tags    reviews
// @Param   id path string true "product id"
// @Success 200 {object} review.ProductComments
// @Router  /products/{id}/comments [get]
func listCommentsHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pc, err := svc.ForProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, pc)
	}
}

// addCommentHandler
// @Summary Comment on a product; blank text is ignored
// @Tags    reviews
// @Param   id   path string true "product id"
// @Param   body body review.AddCommentRequest true "comment"
// @Success 201 {object} review.Comment
// @Success 204
// @Router  /products/{id}/comments [post]
func addCommentHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req review.AddCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json"})
			return
		}
		cm, err := svc.Add(c.Request.Context(), c.Param("id"), userID(c), req.Text, req.Rating)
		if err != nil {
			respondErr(c, err)
			return
		}
		if cm == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusCreated, cm)
	}
}

// deleteCommentHandler
// @Summary Delete a comment written by the caller
// @Tags    reviews
// @Param   id path string true "comment id"
// @Success 204
// @Failure 403 {object} errorBody
// @Router  /comments/{id} [delete]
func deleteCommentHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
