package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pratama/commerce/internal/apperrors"
	inHttp "github.com/pratama/commerce/internal/http"
	"github.com/pratama/commerce/internal/log"
	inOtel "github.com/pratama/commerce/internal/otel"
	"github.com/pratama/commerce/product/internal/otel"
	"github.com/pratama/commerce/product/internal/service"
	"github.com/pratama/commerce/product/internal/validate"
	"github.com/pratama/commerce/product/pkg/dto"
)

type ProductController struct {
	service *service.ProductService
}

// AttachProductController mounts the product routes under /api/products.
// Literal subpaths are registered before the id route so /paginated and
// friends are not captured as ids.
func AttachProductController(router *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service}

	r := router.PathPrefix("/api/products").Subrouter()
	r.HandleFunc("", controller.GetAllProducts).Methods(http.MethodGet)
	r.HandleFunc("", controller.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/paginated", controller.GetProductsPaginated).Methods(http.MethodGet)
	r.HandleFunc("/search", controller.SearchProductsByName).Methods(http.MethodGet)
	r.HandleFunc("/status/{status}", controller.GetProductsByStatus).Methods(http.MethodGet)
	r.HandleFunc("/price-range", controller.GetProductsByPriceRange).Methods(http.MethodGet)
	r.HandleFunc("/{productId}", controller.GetProductByID).Methods(http.MethodGet)
	r.HandleFunc("/{productId}", controller.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/{productId}", controller.DeleteProduct).Methods(http.MethodDelete)
}

func (ctrl ProductController) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetAllProducts")
	defer span.End()

	products, err := ctrl.service.GetProducts(c)
	if err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusOK, products)
}

func (ctrl ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetProductByID")
	defer span.End()

	id, err := productID(r)
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}

	product, err := ctrl.service.GetProductByID(c, id)
	if err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusOK, product)
}

func (ctrl ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController CreateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController CreateProduct").
		Logger()

	reqBody, err := decodeProduct(r)
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}
	if err := validate.ProductDto(c, reqBody); err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}

	c = logger.WithContext(c)
	created, err := ctrl.service.CreateProduct(c, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusCreated, created)
}

func (ctrl ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController UpdateProduct").
		Logger()

	id, err := productID(r)
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}
	reqBody, err := decodeProduct(r)
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}
	if err := validate.ProductDto(c, reqBody); err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}

	c = logger.WithContext(c)
	updated, err := ctrl.service.UpdateProduct(c, id, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusOK, updated)
}

func (ctrl ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController DeleteProduct")
	defer span.End()

	id, err := productID(r)
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}

	if err := ctrl.service.DeleteProduct(c, id); err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusNoContent, nil)
}

func (ctrl ProductController) GetProductsPaginated(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetProductsPaginated")
	defer span.End()

	req, err := parsePageRequest(r)
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}

	page, err := ctrl.service.GetProductsPaginated(c, req)
	if err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusOK, page)
}

func (ctrl ProductController) SearchProductsByName(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController SearchProductsByName")
	defer span.End()

	query := r.URL.Query()
	if !query.Has("nameKeyword") {
		inHttp.WriteError(c, w, r, apperrors.BadRequest("query parameter 'nameKeyword' is required"))
		return
	}

	products, err := ctrl.service.SearchProductsByName(c, query.Get("nameKeyword"))
	if err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusOK, products)
}

func (ctrl ProductController) GetProductsByStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetProductsByStatus")
	defer span.End()

	status := mux.Vars(r)["status"]
	products, err := ctrl.service.GetProductsByStatus(c, status)
	if err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusOK, products)
}

func (ctrl ProductController) GetProductsByPriceRange(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetProductsByPriceRange")
	defer span.End()

	minPrice, err := priceParam(r, "minPrice")
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}
	maxPrice, err := priceParam(r, "maxPrice")
	if err != nil {
		inHttp.WriteError(c, w, r, err)
		return
	}

	products, err := ctrl.service.GetProductsByPriceRange(c, minPrice, maxPrice)
	if err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteError(c, w, r, err)
		return
	}
	inHttp.WriteJson(c, w, http.StatusOK, products)
}

func productID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["productId"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("'%s' is not a valid product id", raw)
	}
	return id, nil
}

func decodeProduct(r *http.Request) (dto.Product, error) {
	reqBody := dto.Product{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		return dto.Product{}, apperrors.BadRequest("%s", err.Error())
	}
	return reqBody, nil
}

func priceParam(r *http.Request, name string) (decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return decimal.Decimal{}, apperrors.BadRequest("query parameter '%s' is required", name)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperrors.BadRequest("'%s' is not a valid price", raw)
	}
	return price, nil
}
