package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services. Field
// names follow the JSON tags of the domain types, which the default
// resolver reads.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RestaurantLocation",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"restaurant_id": &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"address":       &graphql.Field{Type: graphql.String},
			"lat":           &graphql.Field{Type: graphql.Float},
			"lng":           &graphql.Field{Type: graphql.Float},
			"status":        &graphql.Field{Type: graphql.String},
			"radius_km": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					switch loc := p.Source.(type) {
					case domain.RestaurantLocation:
						return loc.DeliveryRadiusKm(), nil
					case *domain.RestaurantLocation:
						return loc.DeliveryRadiusKm(), nil
					}
					return nil, nil
				},
			},
		},
	})

	restaurantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Restaurant",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"slug":      &graphql.Field{Type: graphql.String},
			"cuisine":   &graphql.Field{Type: graphql.String},
			"status":    &graphql.Field{Type: graphql.String},
			"locations": &graphql.Field{Type: graphql.NewList(locationType)},
		},
	})

	estimateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeliveryEstimate",
		Fields: graphql.Fields{
			"distance_km": &graphql.Field{Type: graphql.Float},
			"time_window": &graphql.Field{Type: graphql.String},
			"fee":         &graphql.Field{Type: graphql.Int},
			"source":      &graphql.Field{Type: graphql.String},
		},
	})

	decisionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeliveryZoneDecision",
		Fields: graphql.Fields{
			"can_deliver":      &graphql.Field{Type: graphql.Boolean},
			"distance_km":      &graphql.Field{Type: graphql.Float},
			"radius_km":        &graphql.Field{Type: graphql.Float},
			"policy":           &graphql.Field{Type: graphql.String},
			"nearest_location": &graphql.Field{Type: locationType},
			"estimate":         &graphql.Field{Type: estimateType},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyRestaurant",
		Fields: graphql.Fields{
			"restaurant":  &graphql.Field{Type: restaurantType},
			"location":    &graphql.Field{Type: locationType},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	pointArgs := func(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
		args := graphql.FieldConfigArgument{
			"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		}
		for k, v := range extra {
			args[k] = v
		}
		return args
	}
	pointFrom := func(p graphql.ResolveParams) domain.Coordinate {
		return domain.Coordinate{Lat: p.Args["lat"].(float64), Lng: p.Args["lng"].(float64)}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"restaurants": &graphql.Field{
				Type:        graphql.NewList(restaurantType),
				Description: "List active restaurants with their locations",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Restaurants.ListActive(p.Context)
				},
			},
			"restaurant": &graphql.Field{
				Type:        restaurantType,
				Description: "Get a restaurant by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Restaurants.Get(p.Context, p.Args["id"].(string))
				},
			},
			"nearbyRestaurants": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Restaurants with an open location within radius km, nearest first",
				Args: pointArgs(graphql.FieldConfigArgument{
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := deps.Delivery.NearbyRestaurants(p.Context, pointFrom(p), p.Args["radius"].(float64))
					if err != nil {
						return nil, err
					}
					return res.Restaurants, nil
				},
			},
			"deliveryZone": &graphql.Field{
				Type:        decisionType,
				Description: "Whether a restaurant delivers to a point",
				Args: pointArgs(graphql.FieldConfigArgument{
					"restaurant_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Delivery.CheckDeliveryZone(p.Context, p.Args["restaurant_id"].(string), pointFrom(p))
				},
			},
			"estimate": &graphql.Field{
				Type:        estimateType,
				Description: "Time window and fee for a distance in km",
				Args: graphql.FieldConfigArgument{
					"distance_km": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					km := p.Args["distance_km"].(float64)
					if km < 0 {
						return nil, &domain.ValidationError{Field: "distance_km", Reason: "must not be negative"}
					}
					return deps.Delivery.Estimate(km), nil
				},
			},
			"coordinate": &graphql.Field{
				Type:        coordinateType,
				Description: "Geocode an address to its best match",
				Args: graphql.FieldConfigArgument{
					"address": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := deps.Geo.Geocode(p.Context, p.Args["address"].(string))
					if err != nil || res == nil {
						return nil, err
					}
					return res.Coordinate(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
