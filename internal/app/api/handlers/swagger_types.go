package handlers

import (
	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/internal/app/service/blog"
	"github.com/fatflowers/storetis/internal/app/service/cart"
	"github.com/fatflowers/storetis/internal/app/service/checkout"
	"github.com/fatflowers/storetis/internal/app/service/consultation"
	"github.com/fatflowers/storetis/internal/app/service/order"
	"github.com/fatflowers/storetis/internal/app/service/search"
	"github.com/fatflowers/storetis/internal/app/service/statistics"
	"github.com/fatflowers/storetis/internal/app/service/subscription"
	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/response"
)

// Envelope types below only exist so swag can document the data field of
// each endpoint.

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespLogin struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    account.LoginResult      `json:"data"`
}

type RespUser struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.User              `json:"data"`
}

type RespUsers struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.User            `json:"data"`
}

type RespUserPage struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    account.UserPage         `json:"data"`
}

type RespAddChild struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    account.AddChildResult   `json:"data"`
}

type RespDashboard struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subscription.Dashboard   `json:"data"`
}

type RespCategory struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Category          `json:"data"`
}

type RespCategories struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Category        `json:"data"`
}

type RespSupplier struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Supplier          `json:"data"`
}

type RespSuppliers struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Supplier        `json:"data"`
}

type RespService struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Service           `json:"data"`
}

type RespServices struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Service         `json:"data"`
}

type RespServiceImage struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.ServiceImage      `json:"data"`
}

type RespCart struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.CartItem        `json:"data"`
}

type RespCartAdd struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    cart.AddResult           `json:"data"`
}

type RespDraft struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    checkout.Draft           `json:"data"`
}

type RespOrder struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Order             `json:"data"`
}

type RespOrders struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Order           `json:"data"`
}

type RespStatusUpdate struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    order.StatusUpdate       `json:"data"`
}

type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.UserSubscription  `json:"data"`
}

type RespScanSubscriptions struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    subscription.ScanResponse `json:"data"`
}

type RespConsultationRequest struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    consultation.RequestResult `json:"data"`
}

type RespConsultation struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    models.ConsultationRequest `json:"data"`
}

type RespConsultations struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    []models.ConsultationRequest `json:"data"`
}

type RespPost struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Post              `json:"data"`
}

type RespPosts struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Post            `json:"data"`
}

type RespPostDetail struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    blog.PostDetail          `json:"data"`
}

type RespSearch struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    search.Result            `json:"data"`
}

type RespStatistics struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    statistics.Response      `json:"data"`
}
