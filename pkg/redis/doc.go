// Package redis connects the application to Redis, which backs the usage
// counters behind period and storage quotas.
//
// Connect retries until the server is reachable or the attempts run out:
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Healthcheck returns a probe for the HTTP health endpoint.
package redis
