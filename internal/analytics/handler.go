package analytics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orderlens-lab/orderlens/internal/core/cohort"
	httperr "github.com/orderlens-lab/orderlens/internal/core/errors"
	"github.com/orderlens-lab/orderlens/internal/core/lifecycle"
)

// RegisterRoutes registers all analytics API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/orders/:order_id/lifecycle", s.HandleLifecycle)
	r.GET("/v1/orders/:order_id/lifecycle/between", s.HandleTimeBetween)

	r.GET("/v1/customers/:customer_id/summary", s.HandleCustomerSummary)
	r.GET("/v1/customers/:customer_id/orders/:order_id/total", s.HandleOrderTotal)
	r.GET("/v1/customers/:customer_id/frequent-products", s.HandleFrequentProducts)

	r.GET("/v1/regions/:region/customers", s.HandleCustomersInRegion)

	r.GET("/v1/analytics/top-customers", s.HandleTopCustomers)
	r.GET("/v1/analytics/top-products", s.HandleTopProducts)
	r.GET("/v1/analytics/avg-customer-spend", s.HandleAvgCustomerSpend)
	r.GET("/v1/analytics/avg-order-value", s.HandleAvgOrderValue)
}

// HandleLifecycle handles GET /v1/orders/:order_id/lifecycle
func (s *Service) HandleLifecycle(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	resp, err := s.Lifecycle(orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTimeBetween handles GET /v1/orders/:order_id/lifecycle/between
// Query parameters: from, to (stage labels)
func (s *Service) HandleTimeBetween(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	resp, err := s.TimeBetween(orderID, c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCustomerSummary handles GET /v1/customers/:customer_id/summary
func (s *Service) HandleCustomerSummary(c *gin.Context) {
	customerID, ok := pathID(c, "customer_id")
	if !ok {
		return
	}

	resp, err := s.CustomerSummary(customerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleOrderTotal handles GET /v1/customers/:customer_id/orders/:order_id/total
func (s *Service) HandleOrderTotal(c *gin.Context) {
	customerID, ok := pathID(c, "customer_id")
	if !ok {
		return
	}
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	resp, err := s.OrderTotal(customerID, orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleFrequentProducts handles GET /v1/customers/:customer_id/frequent-products
func (s *Service) HandleFrequentProducts(c *gin.Context) {
	customerID, ok := pathID(c, "customer_id")
	if !ok {
		return
	}

	resp, err := s.FrequentProducts(customerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCustomersInRegion handles GET /v1/regions/:region/customers
func (s *Service) HandleCustomersInRegion(c *gin.Context) {
	resp, err := s.CustomersInRegion(c.Param("region"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTopCustomers handles GET /v1/analytics/top-customers
// Query parameters: n, region, start, end
func (s *Service) HandleTopCustomers(c *gin.Context) {
	n, f, ok := cohortQuery(c)
	if !ok {
		return
	}

	resp, err := s.TopCustomers(n, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTopProducts handles GET /v1/analytics/top-products
// Query parameters: n, region, start, end
func (s *Service) HandleTopProducts(c *gin.Context) {
	n, f, ok := cohortQuery(c)
	if !ok {
		return
	}

	resp, err := s.TopProducts(n, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleAvgCustomerSpend handles GET /v1/analytics/avg-customer-spend
// Query parameters: region, start, end
func (s *Service) HandleAvgCustomerSpend(c *gin.Context) {
	f, ok := filterQuery(c)
	if !ok {
		return
	}

	resp, err := s.AvgCustomerSpend(f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleAvgOrderValue handles GET /v1/analytics/avg-order-value
// Query parameters: start, end
func (s *Service) HandleAvgOrderValue(c *gin.Context) {
	start, ok := timeQuery(c, "start")
	if !ok {
		return
	}
	end, ok := timeQuery(c, "end")
	if !ok {
		return
	}

	resp, err := s.AvgOrderValue(start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

const defaultTopN = 10

// cohortQuery parses n plus the shared region/date filter.
func cohortQuery(c *gin.Context) (int, cohort.Filter, bool) {
	n := defaultTopN
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid n: "+raw)
			return 0, cohort.Filter{}, false
		}
		n = parsed
	}

	f, ok := filterQuery(c)
	return n, f, ok
}

func filterQuery(c *gin.Context) (cohort.Filter, bool) {
	start, ok := timeQuery(c, "start")
	if !ok {
		return cohort.Filter{}, false
	}
	end, ok := timeQuery(c, "end")
	if !ok {
		return cohort.Filter{}, false
	}
	return cohort.Filter{Region: c.Query("region"), Start: start, End: end}, true
}

func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		badRequest(c, "invalid "+name+" timestamp: "+raw+" (want RFC 3339)")
		return nil, false
	}
	return &t, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name+": "+raw)
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
		ErrorType: httperr.HttpInvalidQueryError,
		Message:   msg,
	})
}

// writeError maps service failures onto the transport taxonomy: validation
// failures are 400, unknown keys and anomalous data are 404, the rest 500.
// Stage and region failures carry their valid sets as structured details.
func writeError(c *gin.Context, err error) {
	var notFound *NotFoundError
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid analytics query",
			Details:   err.Error(),
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   err.Error(),
			Details:   notFoundDetails(err),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to answer analytics query",
			Details:   err.Error(),
		})
	}
}

func notFoundDetails(err error) interface{} {
	var stageErr *lifecycle.StageNotFoundError
	if errors.As(err, &stageErr) {
		return gin.H{"stage": stageErr.Stage, "valid_stages": stageErr.ValidStages}
	}
	var regionErr *cohort.RegionNotFoundError
	if errors.As(err, &regionErr) {
		return gin.H{"region": regionErr.Region, "valid_regions": regionErr.ValidRegions}
	}
	return nil
}
