package main

import (
	"database/sql"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/foodiesthlm/foodie-backend/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tmc/langchaingo/llms/openai"
)

type Agent struct {
	config   *config.Config
	handler  *Handler
	upgrader websocket.Upgrader
}

func main() {
	cfg := config.LoadConfig()

	historyDB, err := sql.Open("sqlite3", cfg.Chat.HistoryDB)
	if err != nil {
		log.Fatal(err)
	}

	db, err := NewFoodiePg(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal(err)
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAI.APIKey),
		openai.WithModel(cfg.OpenAI.Model),
	)
	if err != nil {
		log.Fatal(err)
	}

	events, err := NewNatsClient(&cfg.Nats)
	if err != nil {
		log.Fatal(err)
	}
	defer events.Close()

	handler, err := NewHandler(cfg, db, llm, events, historyDB)
	if err != nil {
		log.Fatal(err)
	}

	if err := events.OnMenuChange(func() {
		slog.Info("menu changed, dropping cached context")
		handler.cache.Invalidate()
	}); err != nil {
		log.Fatal(err)
	}

	agent := &Agent{
		handler:  handler,
		config:   cfg,
		upgrader: websocket.Upgrader{},
	}

	if err := agent.Run(); err != nil {
		log.Fatalf("failed to run the agent: %v", err)
	}
}

func (a *Agent) Run() error {
	r := gin.Default()
	r.Use(NewRateLimiter(a.config.Server.RateLimit).Middleware())

	a.registerRoutes(r)

	return r.Run(a.config.Server.Address())
}

func (a *Agent) registerRoutes(r *gin.Engine) {
	r.POST("/chat", a.chat)
	r.GET("/chat/stream", a.chatStream)

	r.GET("/restaurant", a.getRestaurant)

	r.GET("/menu", a.getMenu)
	r.GET("/menu/search", a.searchMenu)
	r.GET("/menu/specials", a.getSpecials)
	r.GET("/menu/:id", a.getMenuItem)

	r.POST("/orders", a.createOrder)
	r.GET("/orders/:id", a.getOrder)
	r.GET("/orders/:id/status", a.getOrderStatus)
	r.PATCH("/orders/:id/status", a.updateOrderStatus)
	r.GET("/users/:user_id/orders", a.getUserOrders)

	r.POST("/cart", a.addToCart)
	r.GET("/cart/:user_id", a.getCart)
}

func (a *Agent) chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, a.handler.ProcessQuery(ctx, req.Query, req.ConversationID, req.UserID))
}

func (a *Agent) chatStream(ctx *gin.Context) {
	query, _ := ctx.GetQuery("query")
	conversationID, _ := ctx.GetQuery("conversation_id")
	userID, _ := ctx.GetQuery("user_id")

	c, err := a.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer c.Close()

	resultChan := a.handler.StreamQuery(ctx, query, conversationID, userID)
	for {
		select {
		case <-ctx.Request.Context().Done():
			return
		case result := <-resultChan:
			if result == nil {
				return
			}
			if result.Err != nil {
				if result.Err == io.EOF {
					return
				}
				slog.Error("stream processing failed", "error", result.Err)
				return
			}

			if err := c.WriteJSON(result.Msg); err != nil {
				slog.Error("failed to write to ws connection", "error", err)
				return
			}
		}
	}
}

func (a *Agent) getRestaurant(ctx *gin.Context) {
	profile, ok := a.handler.GetRestaurantProfile(ctx)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "restaurant profile not found"})
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (a *Agent) getMenu(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, a.handler.GetAllMenuItems(ctx))
}

func (a *Agent) searchMenu(ctx *gin.Context) {
	filter := MenuFilter{
		Query:    ctx.Query("query"),
		Category: ctx.Query("category"),
	}
	if maxPrice := ctx.Query("max_price"); maxPrice != "" {
		parsed, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		filter.MaxPrice = parsed
	}
	if allergens := ctx.Query("exclude_allergens"); allergens != "" {
		filter.ExcludeAllergens = strings.Split(allergens, ",")
	}
	if tags := ctx.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	ctx.JSON(http.StatusOK, a.handler.SearchItems(ctx, filter))
}

func (a *Agent) getSpecials(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, a.handler.GetDailySpecials(ctx))
}

func (a *Agent) getMenuItem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	item, ok := a.handler.GetItemByID(ctx, id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func (a *Agent) createOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := a.handler.CreateOrder(ctx, req.UserID, req.ToModels(), req.CustomerInfo)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

func (a *Agent) getOrder(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, ok := a.handler.GetOrder(ctx, id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	ctx.JSON(http.StatusOK, order)
}

func (a *Agent) getOrderStatus(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	info, ok := a.handler.GetOrderStatusInfo(ctx, id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	ctx.JSON(http.StatusOK, info)
}

func (a *Agent) updateOrderStatus(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !a.handler.UpdateOrderStatus(ctx, id, req.Status, req.Notes) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to update order status"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *Agent) getUserOrders(ctx *gin.Context) {
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	ctx.JSON(http.StatusOK, a.handler.GetUserOrders(ctx, ctx.Param("user_id"), limit))
}

func (a *Agent) addToCart(ctx *gin.Context) {
	var req AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := a.handler.AddToCart(ctx, req.UserID, req.ItemID, req.Quantity)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

func (a *Agent) getCart(ctx *gin.Context) {
	cart, ok := a.handler.GetCart(ctx, ctx.Param("user_id"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}

	ctx.JSON(http.StatusOK, cart)
}
