package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"agh/navigator/pkg/engine/routingalgorithm"
	"agh/navigator/pkg/geo"
	"agh/navigator/pkg/graph"
	"agh/navigator/pkg/kv"
	"agh/navigator/pkg/server/rest"
	"agh/navigator/pkg/server/rest/service"
	"agh/navigator/pkg/spatial"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "net/http/pprof"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr = flag.String("listenaddr", ":5000", "server listen address")
	pointsFile = flag.String("f", "points.json", "campus points file for the walk network graph")
	dbDir      = flag.String("db", "navigatorDB", "pebble db directory for the h3 vertex index")
)

//	@title			agh navigator API
//	@version		1.0
//	@description	pedestrian shortest path engine for the AGH campus walk network

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	points, err := graph.LoadPoints(*pointsFile)
	if err != nil {
		log.Fatal(err)
	}
	campusGraph, err := graph.BuildGraph(points, geo.GeodesicDistance)
	if err != nil {
		log.Fatal(err)
	}

	db, err := pebble.Open(*dbDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}

	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()
	kvDB.CreateVertexKV(campusGraph.Vertices())

	vertexIndex := spatial.NewVertexIndex(campusGraph)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"),
	))

	routingAlgorithm := routingalgorithm.NewRouteAlgorithm(campusGraph)

	navigatorSvc := service.NewNavigationService(campusGraph, routingAlgorithm, kvDB, vertexIndex)
	rest.NavigatorRouter(r, navigatorSvc, m)

	fmt.Printf("\nloaded %d campus points, server started at %s\n", campusGraph.NumVertices(), *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
