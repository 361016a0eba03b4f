package usecase

import (
	"context"
	"time"
)

// RetryConfig configura los reintentos con backoff exponencial del envío
// remoto de pedidos
type RetryConfig struct {
	MaxAttempts int           // Intentos totales (incluye el primero)
	BaseDelay   time.Duration // Espera inicial entre intentos
	MaxDelay    time.Duration // Tope de espera
	Multiplier  float64       // Factor de crecimiento del backoff
}

// DefaultRetryConfig valores por defecto acotados (configurables por env)
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
	}
}

// retryWithBackoff ejecuta fn con backoff exponencial. Corta ante
// cancelación de contexto; devuelve el último error si se agotan los intentos.
func retryWithBackoff[T any](ctx context.Context, config RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	backoff := config.BaseDelay

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * config.Multiplier)
			if backoff > config.MaxDelay {
				backoff = config.MaxDelay
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, lastErr
}
