package browser

// Polling predicates are called with the selector and whether it is an XPath expression,
// followed by any values they compare against.

const resolveElement = `
	function resolve(sel, xpath) {
		if (xpath) {
			return document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		}
		return document.querySelector(sel);
	}`

const hiddenPredicate = `(sel, xpath) => {` + resolveElement + `
	const el = resolve(sel, xpath);
	if (!el) return true;
	const style = window.getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	return style.display === "none" || style.visibility === "hidden" || rect.width === 0 || rect.height === 0;
}`

const valuePredicate = `(sel, xpath, want) => {` + resolveElement + `
	const el = resolve(sel, xpath);
	return !!el && el.value === want;
}`

const attributePredicate = `(sel, xpath, name, want) => {` + resolveElement + `
	const el = resolve(sel, xpath);
	return !!el && el.getAttribute(name) === want;
}`
