package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/schedule"
	"github.com/charmbracelet/lipgloss"
)

// ProjectScheduleData holds what the project show view renders.
type ProjectScheduleData struct {
	Project     *domain.Project
	Subprojects []*domain.Project
	Products    map[string][]*domain.Product // projectID -> products
}

func FormatOrganizationList(orgs []*domain.Organization) string {
	rows := make([][]string, 0, len(orgs))
	for _, o := range orgs {
		rows = append(rows, []string{
			Dim(o.ID),
			Bold(o.Name),
			Dim(o.CreatedAt.Format(dateLayout)),
		})
	}
	return RenderBox("Organizations", RenderTable([]string{"ID", "NAME", "CREATED"}, rows))
}

// FormatProjectList renders projects with their derived dates.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "KIND", "AVAILABLE", "START", "END", "DEADLINE"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			displayID(p),
			Bold(p.Name),
			kindBadge(p.Kind()),
			DateCell(p.AvailableDate),
			DateCell(p.StartDate),
			EndCell(p.EndDate),
			DateCell(p.FixedDeadline),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectSchedule renders a project's metadata beside its schedule
// tree of subprojects and products.
func FormatProjectSchedule(data ProjectScheduleData) string {
	left := buildMetadataPanel(data.Project)
	right := RenderTree(buildScheduleTree(data))
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func buildMetadataPanel(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "\n")
	b.WriteString(kindBadge(p.Kind()) + "\n\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID       "), displayID(p))
	fmt.Fprintf(&b, "%s  %s\n", Dim("UUID     "), TruncID(p.ID))
	fmt.Fprintf(&b, "%s  %s\n", Dim("AVAILABLE"), DateCell(p.AvailableDate))
	fmt.Fprintf(&b, "%s  %s\n", Dim("START    "), DateCell(p.StartDate))
	fmt.Fprintf(&b, "%s  %s\n", Dim("END      "), EndCell(p.EndDate))
	fmt.Fprintf(&b, "%s  %s\n", Dim("DEADLINE "), DateCell(p.FixedDeadline))
	if p.FixedDeadline != nil && p.EndDate != nil && p.EndDate.After(*p.FixedDeadline) {
		b.WriteString("\n" + StyleRed.Render("▲ ends after fixed deadline") + "\n")
	}
	return b.String()
}

func buildScheduleTree(data ProjectScheduleData) []TreeItem {
	root := data.Project
	items := []TreeItem{{
		Title:  root.Name,
		Closed: root.EndDate != nil,
		Detail: ScheduleDetail(root.Schedule()),
	}}

	own := data.Products[root.ID]
	for i, p := range own {
		items = append(items, productItem(p, 1, i == len(own)-1 && len(data.Subprojects) == 0))
	}
	for i, sub := range data.Subprojects {
		items = append(items, TreeItem{
			Title:  sub.Name,
			Level:  1,
			IsLast: i == len(data.Subprojects)-1,
			Closed: sub.EndDate != nil,
			Detail: ScheduleDetail(sub.Schedule()),
		})
		products := data.Products[sub.ID]
		for j, p := range products {
			items = append(items, productItem(p, 2, j == len(products)-1))
		}
	}
	return items
}

func productItem(p *domain.Product, level int, last bool) TreeItem {
	return TreeItem{
		Title:  p.Name,
		Level:  level,
		IsLast: last,
		Leaf:   true,
		Detail: ScheduleDetail(p.Schedule()),
	}
}

// ScheduleDetail renders the three dates on one line.
func ScheduleDetail(d domain.ScheduleDates) string {
	end := "open"
	if d.End != nil {
		end = PlainDate(d.End)
	}
	return fmt.Sprintf("avail %s  start %s  end %s", PlainDate(d.Available), PlainDate(d.Start), end)
}

// FormatRecalcReport summarizes a bulk recalculation.
func FormatRecalcReport(rep schedule.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("ORGANIZATION"), rep.OrganizationID)
	fmt.Fprintf(&b, "%s  %d\n", Dim("SUBPROJECTS "), rep.Subprojects)
	fmt.Fprintf(&b, "%s  %d\n", Dim("ROOTS       "), rep.Roots)
	fmt.Fprintf(&b, "%s  %d\n", Dim("BATCHES     "), rep.Batches)
	updated := StyleGreen.Render(fmt.Sprintf("%d", rep.Updated))
	if rep.Updated > 0 {
		updated = StyleYellow.Render(fmt.Sprintf("%d", rep.Updated))
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("UPDATED     "), updated)
	fmt.Fprintf(&b, "%s  %s", Dim("DURATION    "), rep.Duration.Round(time.Millisecond))
	return RenderBox("Recalculation", b.String())
}

func displayID(p *domain.Project) string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if p.ID == "" {
		return Dim("--")
	}
	return TruncID(p.ID)
}

func kindBadge(k domain.NodeKind) string {
	if k == domain.NodeRoot {
		return StylePurple.Render("Root")
	}
	return StyleBlue.Render("Subproject")
}
