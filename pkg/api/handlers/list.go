package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/salesbridge/salesbridge/pkg/listview"
)

// bindListQuery reads the list pipeline parameters from the query string.
// clickSort simulates a column-header click: it advances the sort relative to
// the submitted one and jumps back to the first page.
func bindListQuery(c echo.Context) listview.Query {
	q := listview.Query{
		Search: c.QueryParam("search"),
		Sort: listview.Sort{
			Field:     c.QueryParam("sortField"),
			Direction: listview.Direction(c.QueryParam("sortDir")),
		},
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))

	if clicked := c.QueryParam("clickSort"); clicked != "" {
		q.Sort = listview.NextSort(q.Sort, clicked)
		q.Page = 1
	}
	return q
}
