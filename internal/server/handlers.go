package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/ingest"
	"github.com/earlystart/spendcast/internal/service"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordReset struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type forecastRequest struct {
	MonthlyIncome float64 `json:"monthly_income"`
	RenderChart   bool    `json:"render_chart"`
}

func (s *Server) addUser(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing JSON data"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	if err := s.store.CreateUser(c.Request.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User added successfully"})
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing JSON data"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	if err := s.store.AuthenticateUser(c.Request.Context(), req.Email, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req passwordReset
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing JSON data"})
		return
	}
	if req.Email == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and new password required"})
		return
	}

	if err := s.store.UpdatePassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// upload accepts one or more CSV statement exports and stores their
// transactions.
func (s *Server) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files found in request"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	loader := ingest.NewCSVLoader()
	total := 0
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cannot open %s", fh.Filename)})
			return
		}
		txns, err := loader.Load(f)
		_ = f.Close()
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": fmt.Sprintf("%s: %v", fh.Filename, err)})
			return
		}

		saved, err := s.store.SaveTransactions(c.Request.Context(), txns)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total += saved
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("%d file(s) received!", len(files)),
		"saved":   total,
	})
}

// forecast runs the pipeline over all stored transactions.
func (s *Server) forecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing JSON data"})
		return
	}

	txns, err := s.store.GetTransactions(c.Request.Context(), nil, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	svcReq := service.Request{
		Transactions:  txns,
		MonthlyIncome: req.MonthlyIncome,
	}
	if req.RenderChart && s.chartDir != "" {
		svcReq.ChartPath = filepath.Join(s.chartDir, "forecast_plot.png")
	}

	res, err := s.pipeline.Run(c.Request.Context(), svcReq)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"report": res.Report}
	if res.ChartPath != "" {
		resp["chart_path"] = res.ChartPath
	}
	if res.RenderErr != nil {
		resp["chart_error"] = res.RenderErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// statusFor maps pipeline error types onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidConfig),
		errors.Is(err, common.ErrInvalidDate),
		errors.Is(err, common.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
