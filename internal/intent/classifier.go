package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/warehouse"
)

// Classifier maps a user utterance to an Intent. It composes the
// deterministic keyword tier with an optional oracle enrichment step; the
// oracle proposal is validated against the keyword rules and overridden
// where they disagree.
type Classifier struct {
	Oracle        Oracle
	Mapping       warehouse.TableMapping
	SchemaSummary string
	Logger        *slog.Logger
}

// Classify never fails: every path ends in an intent with non-empty SQL and
// a valid visualization. Degraded paths leave guidance empty so the composer
// narrates from the data instead of boilerplate.
func (c *Classifier) Classify(ctx context.Context, utterance string) Intent {
	if c.Oracle == nil {
		return c.degraded(utterance, "oracle is not configured")
	}

	raw, err := c.Oracle.Complete(ctx, c.systemPrompt(), utterance)
	if err != nil {
		c.logDegradation(ctx, utterance, err.Error())
		return c.degraded(utterance, fmt.Sprintf("oracle invocation failed: %v", err))
	}

	proposed, ok := parseOracleOutput(raw)
	if !ok {
		c.logDegradation(ctx, utterance, "oracle output unparseable")
		return c.degraded(utterance, "oracle output could not be parsed")
	}

	if strings.TrimSpace(proposed.SQLQuery) == "" {
		synthesized := Fallback(utterance, c.Mapping)
		proposed.SQLQuery = synthesized.SQLQuery
		proposed.Visualization = synthesized.Visualization
		proposed.Fallback = true
		proposed.Note = "oracle returned no sql_query; fallback synthesis used"
		c.logDegradation(ctx, utterance, "empty sql_query from oracle")
	}

	return c.normalize(utterance, proposed)
}

// normalize applies the deterministic tier's corrections to an oracle
// proposal.
func (c *Classifier) normalize(utterance string, proposed Intent) Intent {
	detected := DetectVisualization(utterance)

	switch {
	case !proposed.Visualization.Valid():
		proposed.Visualization = detected
	case proposed.Visualization == VisualizationTable && detected != VisualizationTable:
		// Oracles habitually default to tables for ordinary questions.
		// Tables are only served on an explicit request.
		proposed.Visualization = detected
	}

	if strings.TrimSpace(proposed.ResponseGuidance) == "" {
		proposed.ResponseGuidance = GuidanceFor(utterance, proposed.Visualization)
	}
	if proposed.ResponseType == "" {
		proposed.ResponseType = responseTypeFor(proposed.Visualization)
	}
	if proposed.Kind == "" {
		proposed.Kind = "query"
	}
	return proposed
}

// degraded produces the pure fallback intent. Guidance stays empty: the
// composer's insight tier embeds the record count, which synthesized
// guidance would shadow.
func (c *Classifier) degraded(utterance, note string) Intent {
	result := Fallback(utterance, c.Mapping)
	result.Fallback = true
	result.Note = note
	return result
}

func (c *Classifier) logDegradation(ctx context.Context, utterance, reason string) {
	if c.Logger == nil {
		return
	}
	c.Logger.WarnContext(ctx, "classification degraded",
		slog.String("reason", reason),
		slog.String("utterance", utterance),
	)
}

func (c *Classifier) systemPrompt() string {
	products := c.Mapping.TableFor(warehouse.EntityProducts)
	orders := c.Mapping.TableFor(warehouse.EntityOrders)
	customers := c.Mapping.TableFor(warehouse.EntityCustomers)
	categories := c.Mapping.TableFor(warehouse.EntityCategories)
	orderDetails := c.Mapping.TableFor(warehouse.EntityOrderDetails)
	employees := c.Mapping.TableFor(warehouse.EntityEmployees)

	return fmt.Sprintf(`You are a data analyst for a relational sales database.

Database schema:
%s

Table names (use exact names, quoted with double quotes when they contain spaces):
- Products: %q
- Orders: %q
- Customers: %q
- Categories: %q
- Order Details: %q
- Employees: %q

Decide how to answer the user's question:
- "table" visualization ONLY when the user explicitly asks for a table, raw data, or an export.
- "line" for time trends, "bar" for comparisons and rankings, "pie" for distributions and shares, but only when the user asks for a chart.
- "text" (the default) for every other question: answer with insights in natural language.

ALWAYS respond with exactly this JSON object and nothing else:
{"intent": "query", "sql_query": "SELECT ...", "visualization": "line/bar/pie/table/text", "response_guidance": "Meaningful insight about what the data shows", "response_type": "table/chart/text"}

Rules:
1. Never ask for clarification; always produce a runnable read-only SQL query.
2. The sql_query field must never be empty.
3. Use "forecast" as the intent and add a "time_period" field when the user asks about future values.
4. Default to "text" visualization unless tables or charts are explicitly requested.`,
		c.SchemaSummary, products, orders, customers, categories, orderDetails, employees)
}
