// Package commands はUIから呼び出されるコマンドの登録と実行を行います。
package commands

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"github.com/google/uuid"

	"go-desktop-todo/internal/apperrors"
	"go-desktop-todo/internal/models"
)

// TodoStore はTodoの永続化を行うストアです。
type TodoStore interface {
	FindAll(ctx context.Context) ([]*models.Todo, error)
	FindByID(ctx context.Context, id int) (*models.Todo, error)
	Create(ctx context.Context, title string) (*models.Todo, error)
	Update(ctx context.Context, t *models.Todo) error
	Delete(ctx context.Context, id int) error
}

// CounterStore はカウンターの永続化を行うストアです。
type CounterStore interface {
	Save(ctx context.Context, value int) error
	Load(ctx context.Context) (int, error)
}

// PriceFetcher は株価データを取得します。
type PriceFetcher interface {
	GetPrices(ctx context.Context) ([]models.ChartData, error)
}

// HandlerFunc はデコード済みのパラメータを受け取りコマンドを実行します。
type HandlerFunc func(ctx context.Context, raw json.RawMessage) (any, error)

// Command は名前付きのコマンドです。
type Command struct {
	Name    string
	Handler HandlerFunc
}

// Dispatcher はコマンド名からハンドラーへの対応表です。
type Dispatcher struct {
	commands map[string]Command
}

// NewDispatcher はすべてのコマンドを登録したDispatcherを作成します。
func NewDispatcher(todos TodoStore, counter CounterStore, prices PriceFetcher) *Dispatcher {
	d := &Dispatcher{commands: make(map[string]Command)}
	h := &handlers{todos: todos, counter: counter, prices: prices}

	d.Register("list_todos", noParams(h.listTodos))
	d.Register("get_todo", withParams(h.getTodo))
	d.Register("add_todo", withParams(h.addTodo))
	d.Register("update_todo", withParams(h.updateTodo))
	d.Register("delete_todo", withParams(h.deleteTodo))
	d.Register("get_prices", noParams(h.getPrices))
	d.Register("get_chart_data", noParams(h.getChartData))
	d.Register("save_counter", withParams(h.saveCounter))
	d.Register("load_counter", noParams(h.loadCounter))

	// 旧名
	d.Alias("get_todos", "list_todos")
	d.Alias("get_stock_prices", "get_prices")

	return d
}

// Register はコマンドを登録します。同名のコマンドは上書きされます。
func (d *Dispatcher) Register(name string, handler HandlerFunc) {
	d.commands[name] = Command{Name: name, Handler: handler}
}

// Alias は既存のコマンドを別名で登録します。
func (d *Dispatcher) Alias(alias, target string) {
	if cmd, ok := d.commands[target]; ok {
		d.commands[alias] = Command{Name: alias, Handler: cmd.Handler}
	}
}

// Names は登録済みのコマンド名をソートして返します。
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke は名前でコマンドを実行します。rawはJSONのパラメータで、空でも構いません。
func (d *Dispatcher) Invoke(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	id := uuid.NewString()
	return d.InvokeWithID(ctx, id, name, raw)
}

// InvokeWithID は呼び出しIDを指定してコマンドを実行します。
func (d *Dispatcher) InvokeWithID(ctx context.Context, id, name string, raw json.RawMessage) (any, error) {
	cmd, ok := d.commands[name]
	if !ok {
		log.Printf("invoke %s id=%s: unknown command", name, id)
		return nil, apperrors.E(apperrors.KindUnknownCommand, "unknown command", errUnknown(name))
	}

	result, err := cmd.Handler(ctx, raw)
	if err != nil {
		log.Printf("invoke %s id=%s failed: %v", name, id, err)
		return nil, err
	}
	return result, nil
}
