package browser

// installJS wires the field's listeners to the exposed binding. It runs with
// this bound to the field element.
const installJS = `(binding, acceptKey) => {
	const el = this;
	const send = (ev) => { window[binding](ev); };
	const onInput = () => send({type: "input", value: el.value});
	const onKeydown = (e) => {
		if (e.key === acceptKey && el.hasAttribute("data-ghostline-pending")) {
			e.preventDefault();
			e.stopPropagation();
		}
		send({type: "keydown", key: e.key});
	};
	const onBlur = () => send({type: "blur"});
	el.addEventListener("input", onInput);
	el.addEventListener("keydown", onKeydown, {passive: false});
	el.addEventListener("blur", onBlur);
	el.__ghostline = el.__ghostline || {};
	el.__ghostline[binding] = () => {
		el.removeEventListener("input", onInput);
		el.removeEventListener("keydown", onKeydown);
		el.removeEventListener("blur", onBlur);
		el.removeAttribute("data-ghostline-pending");
	};
}`

const uninstallJS = `(binding) => {
	const off = this.__ghostline && this.__ghostline[binding];
	if (off) {
		off();
		delete this.__ghostline[binding];
	}
}`

const observeJS = `(binding, id) => {
	const el = this;
	const ro = new ResizeObserver(() => window[binding]({type: "resize", id: id}));
	ro.observe(el);
	el.__ghostlineResize = el.__ghostlineResize || {};
	el.__ghostlineResize[binding + ":" + id] = ro;
}`

const unobserveJS = `(binding, id) => {
	const key = binding + ":" + id;
	const ro = this.__ghostlineResize && this.__ghostlineResize[key];
	if (ro) {
		ro.disconnect();
		delete this.__ghostlineResize[key];
	}
}`

// textFieldJS reports whether this is an element with an editable text value.
const textFieldJS = `() => this instanceof HTMLTextAreaElement ||
	(this instanceof HTMLInputElement && ["text", "search", "url", "tel", "email"].includes(this.type))`

const valueJS = `() => this.value`

const setValueJS = `(v) => { this.value = v; }`

const computedStyleJS = `(props) => {
	const cs = window.getComputedStyle(this);
	const out = {};
	for (const p of props) {
		out[p] = cs.getPropertyValue(p);
	}
	return out;
}`

const rectJS = `() => {
	const r = this.getBoundingClientRect();
	return {top: r.top, left: r.left, width: r.width, height: r.height};
}`

const scrollJS = `() => ({x: window.scrollX, y: window.scrollY})`

const createLayerJS = `(id) => {
	const host = document.createElement("div");
	host.setAttribute("data-ghostline-layer", id);
	const shadow = host.attachShadow({mode: "open"});
	const mirror = document.createElement("div");
	mirror.style.display = "inline-block";
	shadow.append(mirror);
	document.body.append(host);
}`

const removeLayerJS = `(id) => {
	const host = document.querySelector('[data-ghostline-layer="' + id + '"]');
	if (host) {
		host.remove();
	}
	this.removeAttribute("data-ghostline-pending");
}`

// setContentJS runs on the field so it can flag whether a prediction is on
// screen.
const setContentJS = `(id, html) => {
	const host = document.querySelector('[data-ghostline-layer="' + id + '"]');
	if (!host) {
		return;
	}
	host.shadowRoot.firstChild.innerHTML = html;
	this.toggleAttribute("data-ghostline-pending", html !== "");
}`

const setStyleJS = `(id, cssText, decls) => {
	const host = document.querySelector('[data-ghostline-layer="' + id + '"]');
	if (!host) {
		return;
	}
	const style = host.shadowRoot.firstChild.style;
	style.cssText = cssText;
	for (const d of decls) {
		if (d.remove) {
			style.removeProperty(d.property);
		} else {
			style.setProperty(d.property, d.value);
		}
	}
}`

const consoleErrorJS = `(msg) => console.error(msg)`
