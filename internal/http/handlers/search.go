package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"aerodesk/internal/http/middleware"
	"aerodesk/internal/services"
	"aerodesk/internal/utils"

	"github.com/gin-gonic/gin"
)

func searchService(c *gin.Context) services.SearchService {
	e := currentEnv()
	return services.SearchService{
		Supplier:             searcher(),
		DefaultMarkupPercent: e.DefaultMarkupPercent,
		RequestID:            middleware.GetRequestID(c),
	}
}

// GET /api/search?origin=..&destination=..&departure_date=..[&return_date=..][&preference=..]
// A route=SIN,BKK,HKG parameter expands into multi-city legs instead.
func Search(c *gin.Context) {
	adults, _ := strconv.Atoi(strings.TrimSpace(c.Query("adults")))
	q := services.SearchQuery{
		Origin:        utils.FirstNonEmpty(c.Query("origin"), c.Query("from")),
		Destination:   utils.FirstNonEmpty(c.Query("destination"), c.Query("to")),
		DepartureDate: c.Query("departure_date"),
		ReturnDate:    c.Query("return_date"),
		Preference:    c.Query("preference"),
		Adults:        adults,
	}

	if codes := utils.SplitCodeList(c.Query("route")); len(codes) >= 3 {
		for i := 0; i+1 < len(codes); i++ {
			q.Legs = append(q.Legs, services.LegQuery{
				Origin:        codes[i],
				Destination:   codes[i+1],
				DepartureDate: q.DepartureDate,
			})
		}
	}

	views, err := searchService(c).Search(q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(views),
		"itineraries": views,
	})
}

// POST /api/search/multi-city with a legs[] payload.
func SearchMultiCity(c *gin.Context) {
	var q services.SearchQuery
	if !BindJSONOrError(c, &q) {
		return
	}
	if len(q.Legs) < 2 {
		RespondError(c, http.StatusBadRequest, "minimal 2 leg untuk multi-city", nil)
		return
	}

	views, err := searchService(c).Search(q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(views),
		"itineraries": views,
	})
}
