package utils

import "time"

// StripeEventPrefix is the prefix used for Redis keys of processed Stripe events.
const StripeEventPrefix = "stripe:event:"

// StripeEventTTL is how long a processed Stripe event id is remembered.
// Stripe retries failed deliveries for up to three days.
const StripeEventTTL = 72 * time.Hour
