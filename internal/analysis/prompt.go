package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	apperrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
)

const (
	PlaceholderProducts = "{productsContext}"
	PlaceholderClients  = "{clientsContext}"
	PlaceholderMessage  = "{messageText}"

	templateName = "order-analysis"
)

// DefaultTemplate is the instruction prompt used for phase 1. It asks the
// model to identify clients and products strictly from the supplied
// context and to flag anything it cannot match instead of inventing data.
const DefaultTemplate = `Eres un asistente que procesa pedidos enviados por mensaje a un pequeño negocio.

CATALOGO DE PRODUCTOS:
{productsContext}

CLIENTES REGISTRADOS:
{clientsContext}

MENSAJE RECIBIDO:
"""
{messageText}
"""

Analiza el mensaje e identifica cada pedido. Para cada pedido indica el cliente (usando los IDs del listado de clientes) y los productos solicitados (usando los IDs del catálogo), con cantidad y variante cuando aplique.

Reglas:
- NO inventes datos: usa únicamente los IDs presentes en el catálogo y en la lista de clientes.
- Si el cliente no aparece en la lista, usa id null y matchConfidence "bajo".
- Si un producto no aparece en el catálogo, usa id null y status "duda".
- Si un producto tiene variantes y el mensaje no especifica cuál, usa status "duda" y explica en notes.
- matchConfidence es "alto", "medio" o "bajo" según la certeza del emparejamiento del cliente.
- status de cada item es "confirmado" o "duda".

Responde SOLO con un array JSON con esta forma:
[{"client":{"id":"...","name":"...","matchConfidence":"alto"},"items":[{"product":{"id":"...","name":"..."},"variant":null,"quantity":1,"status":"confirmado","notes":""}],"isPaid":false}]`

// repairTemplate is the single-shot instruction used when phase 1's output
// cannot be parsed as JSON even after extraction.
const repairTemplate = `El siguiente texto debería ser un array JSON válido pero no lo es. Conviértelo en un array JSON válido, conservando los datos tal cual. Responde SOLO con el JSON corregido, sin explicaciones.

TEXTO:
%s`

// SerializeProducts renders the catalog context consumed by the template.
func SerializeProducts(products []models.Product) string {
	lines := make([]string, 0, len(products))
	for i := range products {
		p := &products[i]
		line := fmt.Sprintf("Producto: %s (ID: %s).", p.Name, p.ID)
		if len(p.Variants) > 0 {
			variants := make([]string, 0, len(p.Variants))
			for _, v := range p.Variants {
				variants = append(variants, fmt.Sprintf("%s (ID: %s)", v.Name, v.ID))
			}
			line += " Variantes: " + strings.Join(variants, ", ")
		} else {
			line += " Sin variantes"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// SerializeClients renders the client context consumed by the template.
func SerializeClients(clients []models.Client) string {
	lines := make([]string, 0, len(clients))
	for i := range clients {
		c := &clients[i]
		line := fmt.Sprintf("Cliente: %s (ID: %s)", c.Name, c.ID)
		if c.Phone != nil && *c.Phone != "" {
			line += fmt.Sprintf(", Teléfono: %s", *c.Phone)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt substitutes the three placeholders into the template. Each
// placeholder appears once, so a single replacement is enough.
func BuildPrompt(template, productsContext, clientsContext, message string) string {
	out := strings.Replace(template, PlaceholderProducts, productsContext, 1)
	out = strings.Replace(out, PlaceholderClients, clientsContext, 1)
	out = strings.Replace(out, PlaceholderMessage, message, 1)
	return out
}

// ValidateTemplate rejects templates missing any of the three placeholders.
func ValidateTemplate(template string) error {
	missing := make([]string, 0, 3)
	for _, ph := range []string{PlaceholderProducts, PlaceholderClients, PlaceholderMessage} {
		if !strings.Contains(template, ph) {
			missing = append(missing, ph)
		}
	}
	if len(missing) > 0 {
		return apperrors.New(apperrors.CodeValidation, "template missing required placeholders").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

type templateCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	TemplateKey(name string) string
}

// Templates manages the process-wide prompt template override. The
// override lives in Redis so it survives restarts.
type Templates struct {
	cache templateCache
}

func NewTemplates(cache templateCache) *Templates {
	return &Templates{cache: cache}
}

// Current returns the stored override, or the default template when none
// is set.
func (t *Templates) Current(ctx context.Context) (string, error) {
	if t == nil || t.cache == nil {
		return DefaultTemplate, nil
	}
	raw, err := t.cache.Get(ctx, t.cache.TemplateKey(templateName))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return DefaultTemplate, nil
		}
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "loading prompt template")
	}
	return raw, nil
}

// SetCurrent validates and stores a template override.
func (t *Templates) SetCurrent(ctx context.Context, template string) error {
	if err := ValidateTemplate(template); err != nil {
		return err
	}
	if err := t.cache.Set(ctx, t.cache.TemplateKey(templateName), template, 0); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "storing prompt template")
	}
	return nil
}

// Reset removes the override so the default template applies again.
func (t *Templates) Reset(ctx context.Context) error {
	if err := t.cache.Del(ctx, t.cache.TemplateKey(templateName)); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "resetting prompt template")
	}
	return nil
}
