package signature

// Signature pairs a literal markup substring with the label it identifies.
// Matching is case-sensitive containment: catalog entries are asset-path and
// script-tag fragments that appear verbatim in page markup.
type Signature struct {
	Pattern string
	Label   string
}

// UnknownPlatform is the platform label when no signature matches.
const UnknownPlatform = "Unknown"

// Platforms is the CMS signature table, evaluated in order with
// first-match-wins semantics. Order is priority: entries for the same
// platform (e.g. the two Drupal script names) sit adjacent, and more
// specific fragments come before generic ones. Adding a platform is a data
// change here, not a code change.
var Platforms = []Signature{
	{Pattern: "wp-content", Label: "WordPress"},
	{Pattern: "media/com_", Label: "Joomla"},
	{Pattern: "drupal.js", Label: "Drupal"},
	{Pattern: "drupal.min.js", Label: "Drupal"},
	{Pattern: "skin/frontend/", Label: "Magento"},
	{Pattern: "js/mage/", Label: "Magento"},
	{Pattern: "cdn.shopify.com", Label: "Shopify"},
	{Pattern: "static1.squarespace.com", Label: "Squarespace"},
	{Pattern: "static.parastorage.com", Label: "Wix"},
	{Pattern: "ghost.min.js", Label: "Ghost"},
	{Pattern: "assets.website-files.com", Label: "Webflow"},
}

// Trackers is the tracking-script signature table, evaluated exhaustively:
// every matching entry contributes its label, multiple entries may map to
// the same label, and the result is deduplicated in first-seen order.
var Trackers = []Signature{
	{Pattern: "google-analytics.com", Label: "Google Analytics"},
	{Pattern: "gtag(", Label: "Google Analytics"},
	{Pattern: "googletagmanager.com", Label: "Google Tag Manager"},
	{Pattern: "facebook.net/en_US/fbevents.js", Label: "Facebook Pixel"},
	{Pattern: "hotjar.com", Label: "Hotjar"},
	{Pattern: "matomo.js", Label: "Matomo"},
	{Pattern: "cdn.segment.com", Label: "Segment"},
	{Pattern: "cdn.mxpnl.com", Label: "Mixpanel"},
	{Pattern: "clarity.ms", Label: "Microsoft Clarity"},
	{Pattern: "plausible.io/js", Label: "Plausible"},
}
