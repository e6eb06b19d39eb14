package commands

import (
	"context"

	"go-desktop-todo/internal/models"
	"go-desktop-todo/internal/services"
)

type handlers struct {
	todos   TodoStore
	counter CounterStore
	prices  PriceFetcher
}

func (h *handlers) listTodos(ctx context.Context) (any, error) {
	return h.todos.FindAll(ctx)
}

func (h *handlers) getTodo(ctx context.Context, p *DeleteTodoParams) (any, error) {
	return h.todos.FindByID(ctx, *p.ID)
}

func (h *handlers) addTodo(ctx context.Context, p *AddTodoParams) (any, error) {
	if _, err := h.todos.Create(ctx, *p.Title); err != nil {
		return nil, err
	}
	return models.OK(), nil
}

func (h *handlers) updateTodo(ctx context.Context, p *UpdateTodoParams) (any, error) {
	todo := &models.Todo{ID: *p.ID, Title: *p.Title, Completed: *p.Completed}
	if err := h.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return models.OK(), nil
}

func (h *handlers) deleteTodo(ctx context.Context, p *DeleteTodoParams) (any, error) {
	if err := h.todos.Delete(ctx, *p.ID); err != nil {
		return nil, err
	}
	return models.OK(), nil
}

func (h *handlers) getPrices(ctx context.Context) (any, error) {
	return h.prices.GetPrices(ctx)
}

func (h *handlers) getChartData(context.Context) (any, error) {
	return services.DemoData(), nil
}

func (h *handlers) saveCounter(ctx context.Context, p *SaveCounterParams) (any, error) {
	if err := h.counter.Save(ctx, *p.Value); err != nil {
		return nil, err
	}
	return true, nil
}

func (h *handlers) loadCounter(ctx context.Context) (any, error) {
	return h.counter.Load(ctx)
}
