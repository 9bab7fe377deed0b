package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"relmap/internal/models"
)

// Mermaid renders the company's tables and stored relationships as a
// Mermaid erDiagram.
func (s *SchemaService) Mermaid(ctx context.Context, company *models.Company) (string, error) {
	tables, err := s.LoadTables(ctx, company)
	if err != nil {
		return "", fmt.Errorf("failed to load tables: %w", err)
	}
	rels, err := s.rels.ListByCompany(ctx, company.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list relationships: %w", err)
	}
	return generateMermaid(tables, rels), nil
}

// mermaidEdge returns the left entity, cardinality token and right entity.
// For 1-N the target is the "one" side and the referencing source the "many".
func mermaidEdge(r models.Relationship) (string, string, string) {
	src, dst := mermaidName(r.SourceTable), mermaidName(r.TargetTable)
	switch r.Kind {
	case models.OneToOne:
		return src, "||--||", dst
	case models.ManyToMany:
		return src, "}o--o{", dst
	default:
		return dst, "||--o{", src
	}
}

func mermaidName(table string) string {
	return strings.ToUpper(strings.ReplaceAll(table, " ", "_"))
}

func generateMermaid(tables []models.Table, rels []models.Relationship) string {
	var sb strings.Builder
	sb.WriteString("erDiagram\n")

	if len(rels) > 0 {
		for _, r := range rels {
			left, card, right := mermaidEdge(r)
			fmt.Fprintf(&sb, "    %s %s %s : %q\n", left, card, right, r.SourceColumn+" -> "+r.TargetColumn)
		}
		sb.WriteString("\n")
	}

	referencing := make(map[string]bool)
	for _, r := range rels {
		referencing[(models.TableColumn{Table: r.SourceTable, Column: r.SourceColumn}).Key()] = true
	}

	for _, t := range tables {
		fmt.Fprintf(&sb, "    %s {\n", mermaidName(t.Name))
		for _, col := range t.Columns {
			var keys []string
			if slices.Contains(t.PrimaryKeys, col.Name) {
				keys = append(keys, "PK")
			}
			if isForeignKey(t.ForeignKeys, col.Name) || referencing[(models.TableColumn{Table: t.Name, Column: col.Name}).Key()] {
				keys = append(keys, "FK")
			}
			annotation := ""
			if len(keys) > 0 {
				annotation = " " + strings.Join(keys, ",")
			}
			fmt.Fprintf(&sb, "        %s %s%s\n", simplifyDataType(col.DataType), col.Name, annotation)
		}
		sb.WriteString("    }\n")
	}

	return sb.String()
}

func simplifyDataType(dataType string) string {
	dt := strings.ToLower(dataType)

	switch {
	case dt == "integer":
		return "int"
	case strings.HasPrefix(dt, "character varying"):
		return "varchar"
	case strings.HasPrefix(dt, "character"):
		return "char"
	case strings.HasPrefix(dt, "timestamp without time zone"):
		return "timestamp"
	case strings.HasPrefix(dt, "timestamp with time zone"):
		return "timestamptz"
	case strings.HasPrefix(dt, "time without time zone"):
		return "time"
	case strings.HasPrefix(dt, "numeric"):
		return "numeric"
	case dt == "double precision":
		return "double"
	case strings.HasPrefix(dt, "array"):
		return "array"
	case strings.Contains(dt, " "):
		return strings.ReplaceAll(dt, " ", "_")
	default:
		return dt
	}
}

func isForeignKey(fks []models.ForeignKey, column string) bool {
	for _, fk := range fks {
		if fk.FromColumn == column {
			return true
		}
	}
	return false
}
