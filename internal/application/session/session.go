// Package session mantiene el estado explícito de una pantalla de la lista:
// {rows, viewMode, queryText, loading}. Las vistas se derivan siempre de {rows, viewMode}
// con el paquete ecolista; la instantánea de filas se reemplaza completa en cada recarga.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/internal/domain/ecolista"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

// DefaultDebounce periodo de silencio antes de aplicar el texto de búsqueda.
const DefaultDebounce = 300 * time.Millisecond

// Snapshot estado observable de la sesión.
type Snapshot struct {
	View       ecolista.View
	Categories []string
	QueryText  string
	Loading    bool
}

// Options dependencias opcionales de la sesión.
type Options struct {
	Debounce  time.Duration
	AfterFunc AfterFunc
	Logger    *logger.Logger
	// OnChange se invoca (fuera del lock) cada vez que cambia la vista derivada.
	OnChange func(Snapshot)
}

// Session coordina casos de uso y estado de vista. No serializa operaciones mutantes
// superpuestas: la interfaz debe deshabilitar el control mientras hay una petición en curso.
type Session struct {
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	debouncer  *Debouncer
	delay      time.Duration
	log        *logger.Logger
	onChange   func(Snapshot)

	mu       sync.Mutex
	rows     []*entity.Product
	registry []string
	mode     ecolista.ViewMode
	arg      string
	query    string
	loading  bool
}

// New construye una sesión en modo ALL sin filas cargadas.
func New(products *usecase.ProductUseCase, categories *usecase.CategoryUseCase, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Session{
		products:   products,
		categories: categories,
		debouncer:  NewDebouncer(opts.AfterFunc),
		delay:      opts.Debounce,
		log:        opts.Logger,
		onChange:   opts.OnChange,
		mode:       ecolista.ModeAll,
		registry:   []string{},
	}
}

// Snapshot devuelve el estado actual con la vista recalculada.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	cats := make([]string, len(s.registry))
	copy(cats, s.registry)
	return Snapshot{
		View:       ecolista.Compute(s.rows, s.mode, s.arg),
		Categories: cats,
		QueryText:  s.query,
		Loading:    s.loading,
	}
}

func (s *Session) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Snapshot())
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// LoadAll recarga la instantánea y el registro de categorías. La vista vuelve a entrar en el
// mismo estado lógico (categoría o búsqueda); la de frecuentes no se recalcula sola y pasa a ALL.
// Si falla, se conserva la instantánea anterior.
func (s *Session) LoadAll(ctx context.Context) error {
	s.setLoading(true)
	rows, err := s.products.LoadAll(ctx)
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.rows = rows
	s.registry = ecolista.ListCategories(rows)
	if s.mode == ecolista.ModeFrequent {
		s.mode = ecolista.ModeAll
		s.arg = ""
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Search registra una pulsación. La vista solo cambia cuando el texto permanece estable
// durante el periodo de debounce; cada pulsación reemplaza la programación anterior.
func (s *Session) Search(text string) *Handle {
	s.mu.Lock()
	s.query = text
	s.mu.Unlock()
	return s.debouncer.Schedule(text, s.delay, s.applyQuery)
}

func (s *Session) applyQuery(text string) {
	s.mu.Lock()
	if text == "" {
		s.mode, s.arg = ecolista.ModeAll, ""
	} else {
		s.mode, s.arg = ecolista.ModeByQuery, text
	}
	s.mu.Unlock()
	s.log.Debug().Str("query", text).Msg("búsqueda aplicada")
	s.notify()
}

// FilterByCategory cambia a BY_CATEGORY(cat), o a ALL con cat vacío, y limpia la búsqueda activa.
func (s *Session) FilterByCategory(cat string) {
	s.debouncer.CancelPending()
	s.mu.Lock()
	s.query = ""
	if cat == "" {
		s.mode, s.arg = ecolista.ModeAll, ""
	} else {
		s.mode, s.arg = ecolista.ModeByCategory, cat
	}
	s.mu.Unlock()
	s.notify()
}

// ShowFrequent cambia a la vista de frecuentes y limpia la búsqueda activa.
func (s *Session) ShowFrequent() {
	s.debouncer.CancelPending()
	s.mu.Lock()
	s.query = ""
	s.mode, s.arg = ecolista.ModeFrequent, ""
	s.mu.Unlock()
	s.notify()
}

// UpsertProduct inserta o fusiona el candidato y recarga.
func (s *Session) UpsertProduct(ctx context.Context, in dto.UpsertProductRequest) (*usecase.UpsertResult, error) {
	s.setLoading(true)
	res, err := s.products.Upsert(ctx, in)
	if err != nil {
		s.setLoading(false)
		return nil, err
	}
	if err := s.LoadAll(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// SaveEdit aplica la edición completa de la fila id y recarga. Si falla, la vista previa se conserva.
func (s *Session) SaveEdit(ctx context.Context, id string, in dto.UpdateProductRequest) error {
	s.setLoading(true)
	if err := s.products.SaveEdit(ctx, id, in); err != nil {
		s.setLoading(false)
		return err
	}
	return s.LoadAll(ctx)
}

// DeleteProduct elimina la fila id y recarga. Sin borrado optimista: si falla, la fila sigue visible.
func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	s.setLoading(true)
	if err := s.products.Delete(ctx, id); err != nil {
		s.setLoading(false)
		return err
	}
	return s.LoadAll(ctx)
}

// AddCategory registra la categoría y la agrega al registro local.
func (s *Session) AddCategory(ctx context.Context, name string) (string, error) {
	s.setLoading(true)
	added, err := s.categories.Add(ctx, name)
	s.mu.Lock()
	s.loading = false
	if err == nil {
		s.registry = append(s.registry, added)
	}
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	s.notify()
	return added, nil
}

// RemoveCategory borra en cascada la categoría. Si la recarga posterior falla, el estado local
// queda desactualizado y solo se registra en el log.
func (s *Session) RemoveCategory(ctx context.Context, name string) (int64, error) {
	s.setLoading(true)
	n, err := s.categories.Remove(ctx, name)
	if err != nil {
		s.setLoading(false)
		return 0, err
	}
	s.mu.Lock()
	kept := s.registry[:0:0]
	for _, c := range s.registry {
		if c != name {
			kept = append(kept, c)
		}
	}
	s.registry = kept
	s.mu.Unlock()
	if err := s.LoadAll(ctx); err != nil {
		s.log.Warn().Err(err).Str("categoria", name).Msg("recarga tras eliminar categoría")
		s.notify()
	}
	return n, nil
}

// Close cancela la búsqueda pendiente. Se llama al desmontar la vista.
func (s *Session) Close() {
	s.debouncer.Close()
}
