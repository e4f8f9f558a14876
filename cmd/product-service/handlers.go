package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/tienda-ecom/internal/httpx"
	prod "github.com/MikeMC777/tienda-ecom/internal/product"
)

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

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, prod.ErrNotFound):
		c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
	case errors.Is(err, prod.ErrInvalid):
		c.JSON(http.StatusBadRequest, prod.HTTPError{Error: err.Error()})
	default:
		log.WithError(err).WithField("rid", httpx.RID(c)).Error("[product] request failed")
		c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: "internal error"})
	}
}

// listOnlyHandler
// @Summary List products
// @Tags    products
// @Produce json
// @Param   limit  query int false "page size"
// @Param   offset query int false "offset"
// @Success 200 {object} prod.ListResponse
// @Router  /products [get]
func listOnlyHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Limit: limit, Offset: offset})
		if err != nil {
			respondErr(c, err)
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// searchHandler
// @Summary Search products by name, description or category
// @Tags    products
// @Produce json
// @Param   q query string true "at least 2 characters"
// @Success 200 {object} prod.ListResponse
// @Failure 400 {object} prod.HTTPError
// @Router  /products/search [get]
func searchHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len([]rune(q)) < 2 {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "q must have at least 2 characters"})
			return
		}
		limit, offset := pagination(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Q: q, Limit: limit, Offset: offset})
		if err != nil {
			respondErr(c, err)
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{Q: q, Limit: limit, Offset: offset, Items: items})
	}
}

// productView adds the derived offer fields shown on the product page.
type productView struct {
	prod.Product
	EffectivePrice  string `json:"effective_price"`
	DiscountPercent *int   `json:"discount_percent,omitempty"`
}

func viewOf(p *prod.Product) productView {
	return productView{
		Product:         *p,
		EffectivePrice:  p.EffectivePrice().StringFixed(2),
		DiscountPercent: p.DiscountPercent(),
	}
}

// getProductHandler
// @Summary Get a product
// @Tags    products
// @Produce json
// @Param   id path string true "product id"
// @Success 200 {object} productView
// @Failure 404 {object} prod.HTTPError
// @Router  /products/{id} [get]
func getProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(p))
	}
}

// createProductHandler
// @Summary Create a product
// @Tags    products
// @Accept  json
// @Produce json
// @Param   body body prod.CreateProductRequest true "product"
// @Success 201 {object} prod.Product
// @Failure 400 {object} prod.HTTPError
// @Router  /products [post]
func createProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid json"})
			return
		}
		p, err := req.ToProduct()
		if err != nil {
			respondErr(c, err)
			return
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			respondErr(c, err)
			return
		}
		log.WithFields(log.Fields{"product_id": p.ID, "price": p.Price.StringFixed(2)}).Info("product created")
		c.JSON(http.StatusCreated, viewOf(p))
	}
}

// updateProductHandler
// @Summary Partially update a product
// @Tags    products
// @Accept  json
// @Produce json
// @Param   id   path string true "product id"
// @Param   body body prod.UpdateProductRequest true "fields to change"
// @Success 200 {object} prod.Product
// @Failure 400 {object} prod.HTTPError
// @Failure 404 {object} prod.HTTPError
// @Router  /products/{id} [put]
func updateProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid json"})
			return
		}
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		if err := req.ApplyTo(p); err != nil {
			respondErr(c, err)
			return
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(p))
	}
}

// deleteProductHandler
// @Summary Delete a product
// @Tags    products
// @Param   id path string true "product id"
// @Success 204
// @Failure 404 {object} prod.HTTPError
// @Router  /products/{id} [delete]
func deleteProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// liveOffersHandler
// @Summary List offer banners currently on display
// @Tags    offers
// @Produce json
// @Success 200 {array} prod.Offer
// @Router  /offers [get]
func liveOffersHandler(offers prod.OfferRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := offers.ListLive(c.Request.Context(), time.Now().UTC())
		if err != nil {
			respondErr(c, err)
			return
		}
		if items == nil {
			items = []prod.Offer{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// createOfferHandler
// @Summary Create an offer banner
// @Tags    offers
// @Accept  json
// @Produce json
// @Param   body body prod.CreateOfferRequest true "offer"
// @Success 201 {object} prod.Offer
// @Failure 400 {object} prod.HTTPError
// @Router  /offers [post]
func createOfferHandler(offers prod.OfferRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.CreateOfferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid json"})
			return
		}
		o, err := req.ToOffer()
		if err != nil {
			respondErr(c, err)
			return
		}
		if err := offers.CreateOffer(c.Request.Context(), o); err != nil {
			respondErr(c, err)
			return
		}
		log.WithFields(log.Fields{"offer_id": o.ID, "position": o.Position}).Info("offer created")
		c.JSON(http.StatusCreated, o)
	}
}

// deleteOfferHandler
// @Summary Delete an offer banner
// @Tags    offers
// @Param   id path string true "offer id"
// @Success 204
// @Failure 404 {object} prod.HTTPError
// @Router  /offers/{id} [delete]
func deleteOfferHandler(offers prod.OfferRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := offers.DeleteOffer(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
