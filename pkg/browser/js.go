package browser

// The scripts below are self-contained IIFEs evaluated in the document. They
// communicate through three result shapes: null for "no such element", an
// object carrying svgscopeError for failures the document can explain, and a
// plain payload otherwise. Arguments arrive JSON-encoded via jsonEncode, so
// user-supplied strings can never break out of the script.
//
// Element handles are uuid values stored in the data-svgscope-ref attribute
// of the node. Lookups go through querySelector on that attribute, which
// keeps a handle valid for the lifetime of the document no matter how the
// surrounding tree mutates.

// jsFreezeAnimations pauses declarative (SMIL) animations on every root as
// soon as the document is interactive. Animated geometry would otherwise
// drift between the declared and rendered measurement passes.
const jsFreezeAnimations = `(() => {
	const pause = () => {
		for (const root of document.querySelectorAll('svg')) {
			try { root.pauseAnimations(); } catch (e) { /* not animatable */ }
		}
	};
	if (document.readyState === 'loading') {
		document.addEventListener('DOMContentLoaded', pause);
	} else {
		pause();
	}
})();`

// jsQuery locates the first match for a selector and tags it with a ref
// attribute. The second argument is a candidate ref, used only when the node
// has not been tagged before, so repeated queries return the same handle.
const jsQuery = `(function(sel, ref) {
	let node;
	try {
		node = document.querySelector(sel);
	} catch (e) {
		return { svgscopeError: 'invalid selector: ' + e.message };
	}
	if (!node) return null;
	let id = node.getAttribute('data-svgscope-ref');
	if (!id) {
		id = ref;
		node.setAttribute('data-svgscope-ref', id);
	}
	return { ref: id };
})(%s, %s)`

// jsInspect reports the structural facts about an element: tag, reference
// target, instance offset, stroke and filter flags, and the ref of the
// nearest viewport-bearing ancestor (tagged on demand with the candidate
// ref). An element that is itself a root anchors its own coordinate system.
const jsInspect = `(function(ref, rootRef) {
	const node = document.querySelector('[data-svgscope-ref="' + ref + '"]');
	if (!node) return null;
	const style = window.getComputedStyle(node);
	const strokeWidth = parseFloat(style.strokeWidth);
	const hasStroke = style.stroke !== 'none' && !isNaN(strokeWidth) && strokeWidth > 0;
	const hasFilter = !!((style.filter && style.filter !== 'none') || node.hasAttribute('filter'));
	const href = node.getAttribute('href') || node.getAttributeNS('http://www.w3.org/1999/xlink', 'href') || '';
	const num = (v) => (v && typeof v.baseVal === 'object') ? v.baseVal.value : 0;
	let root = null;
	const rootNode = node instanceof SVGSVGElement ? node : (node.viewportElement || node.ownerSVGElement);
	if (rootNode) {
		root = rootNode.getAttribute('data-svgscope-ref');
		if (!root) {
			root = rootRef;
			rootNode.setAttribute('data-svgscope-ref', root);
		}
	}
	return {
		tag: (node.localName || '').toLowerCase(),
		href: href,
		x: num(node.x),
		y: num(node.y),
		hasStroke: hasStroke,
		hasFilter: hasFilter,
		root: root
	};
})(%s, %s)`

// jsDeclaredBox reads the element's declared geometry (getBBox), which is
// local-space and blind to stroke, filters, and late font swaps.
const jsDeclaredBox = `(function(ref) {
	const node = document.querySelector('[data-svgscope-ref="' + ref + '"]');
	if (!node) return null;
	if (typeof node.getBBox !== 'function') {
		return { svgscopeError: 'element <' + node.localName + '> has no declared geometry' };
	}
	let b;
	try {
		b = node.getBBox();
	} catch (e) {
		return { svgscopeError: 'declared geometry unavailable: ' + e.message };
	}
	return { x: b.x, y: b.y, width: b.width, height: b.height };
})(%s)`

// jsScreenRect reads the rendered on-screen rectangle in CSS pixels,
// viewport-relative.
const jsScreenRect = `(function(ref) {
	const node = document.querySelector('[data-svgscope-ref="' + ref + '"]');
	if (!node) return null;
	const r = node.getBoundingClientRect();
	return { x: r.left, y: r.top, width: r.width, height: r.height };
})(%s)`

// jsScreenMatrix reads the transform mapping the element's local coordinates
// to screen coordinates.
const jsScreenMatrix = `(function(ref) {
	const node = document.querySelector('[data-svgscope-ref="' + ref + '"]');
	if (!node) return null;
	if (typeof node.getScreenCTM !== 'function') {
		return { svgscopeError: 'element <' + node.localName + '> has no screen transform' };
	}
	const m = node.getScreenCTM();
	if (!m) {
		return { svgscopeError: 'element is not being rendered' };
	}
	return { a: m.a, b: m.b, c: m.c, d: m.d, e: m.e, f: m.f };
})(%s)`

// jsRootGeometry reads a root's screen rectangle together with its declared
// viewBox in one pass, so the two cannot disagree across a relayout. The
// viewBox is null when the attribute is absent; non-positive declared values
// are returned as-is for the mapper to judge.
const jsRootGeometry = `(function(ref) {
	const node = document.querySelector('[data-svgscope-ref="' + ref + '"]');
	if (!node) return null;
	const r = node.getBoundingClientRect();
	let viewBox = null;
	if (node.hasAttribute && node.hasAttribute('viewBox') && node.viewBox) {
		const vb = node.viewBox.baseVal;
		viewBox = { minX: vb.x, minY: vb.y, width: vb.width, height: vb.height };
	}
	return {
		rect: { x: r.left, y: r.top, width: r.width, height: r.height },
		viewBox: viewBox
	};
})(%s)`

// jsStyle reads computed style values. background-color is special-cased to
// the effective value: the first non-transparent backgroundColor walking up
// the ancestor chain, since the sampled element usually paints none itself.
const jsStyle = `(function(ref, props) {
	const node = document.querySelector('[data-svgscope-ref="' + ref + '"]');
	if (!node) return null;
	const effectiveBackground = (el) => {
		for (let n = el; n; n = n.parentElement) {
			const c = window.getComputedStyle(n).backgroundColor;
			if (c && c !== 'transparent' && c !== 'rgba(0, 0, 0, 0)') return c;
		}
		return 'rgba(0, 0, 0, 0)';
	};
	const out = {};
	for (const p of props) {
		if (p === 'background-color') {
			out[p] = effectiveBackground(node);
		} else {
			out[p] = window.getComputedStyle(node).getPropertyValue(p);
		}
	}
	return out;
})(%s, %s)`

// jsFontsStatus reports the document's font loading status. Engines without
// the Font Loading API have nothing to wait for.
const jsFontsStatus = `(function() {
	if (!document.fonts) return 'loaded';
	return document.fonts.status;
})()`

// jsInsertMarker inserts one overlay node for a screen-space box. In HTML
// documents the marker is an absolutely positioned div offset by the current
// scroll, so it stays glued to content. Standalone SVG documents have no
// body to host a div; there the box is inverse-mapped through the root's
// screen transform and drawn as a path with a non-scaling stroke.
const jsInsertMarker = `(function(m) {
	const box = m.box;
	const mark = (el) => {
		el.setAttribute('data-svgscope-overlay', '');
		el.setAttribute('data-svgscope-ref', m.id);
	};
	if (document.body) {
		const div = document.createElement('div');
		div.style.cssText = 'position:absolute;pointer-events:none;z-index:2147483647;' +
			'box-sizing:border-box;background:transparent;' +
			'left:' + (box.x + window.scrollX) + 'px;top:' + (box.y + window.scrollY) + 'px;' +
			'width:' + box.width + 'px;height:' + box.height + 'px;' +
			'border:' + m.borderWidth + 'px dashed ' + m.color + ';';
		mark(div);
		document.body.appendChild(div);
		return m.id;
	}
	const root = document.documentElement;
	if (!(root instanceof SVGSVGElement)) {
		return { svgscopeError: 'document cannot host overlay markers' };
	}
	const ctm = root.getScreenCTM();
	if (!ctm) {
		return { svgscopeError: 'overlay root is not being rendered' };
	}
	const inv = ctm.inverse();
	const corners = [
		[box.x, box.y],
		[box.x + box.width, box.y],
		[box.x + box.width, box.y + box.height],
		[box.x, box.y + box.height]
	].map(([x, y]) => new DOMPoint(x, y).matrixTransform(inv));
	const path = document.createElementNS('http://www.w3.org/2000/svg', 'path');
	path.setAttribute('d', 'M' + corners.map((p) => p.x + ' ' + p.y).join('L') + 'Z');
	path.setAttribute('fill', 'none');
	path.setAttribute('stroke', m.color);
	path.setAttribute('stroke-width', String(m.borderWidth));
	path.setAttribute('stroke-dasharray', '6 4');
	path.setAttribute('vector-effect', 'non-scaling-stroke');
	path.setAttribute('pointer-events', 'none');
	mark(path);
	root.appendChild(path);
	return m.id;
})(%s)`

// jsRemoveMarkers deletes every node carrying the overlay marker attribute
// and reports how many were removed. Safe with zero markers present.
const jsRemoveMarkers = `(function() {
	const markers = document.querySelectorAll('[data-svgscope-overlay]');
	for (const m of markers) m.remove();
	return markers.length;
})()`
